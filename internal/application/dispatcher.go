package application

import (
	"context"

	"github.com/oksasatya/authguard/internal/application/command"
	"github.com/oksasatya/authguard/internal/application/query"
)

// Dispatcher is the facade over the command/query split. It is
// constructed once with the two fixed dependency bundles and exposes a
// fixed set of named operations, each bound to exactly one side. A
// query operation holds no reference through which it could write, and
// vice versa.
type Dispatcher struct {
	commands *command.Service
	queries  *query.Service
}

func NewDispatcher(commands *command.Service, queries *query.Service) *Dispatcher {
	return &Dispatcher{commands: commands, queries: queries}
}

// RegisterUser is a command: it runs with write-side dependencies.
func (d *Dispatcher) RegisterUser(ctx context.Context, email, password string) (*command.RegisterResult, error) {
	return d.commands.Register(ctx, email, password)
}

// LoginUser is a command: it runs with write-side dependencies.
func (d *Dispatcher) LoginUser(ctx context.Context, in command.LoginInput) (*command.LoginResult, error) {
	return d.commands.Login(ctx, in)
}

// LogoutUser is a command: it runs with write-side dependencies.
func (d *Dispatcher) LogoutUser(ctx context.Context, token string) error {
	return d.commands.Logout(ctx, token)
}

// ValidateToken is a query: read repository and token service only.
func (d *Dispatcher) ValidateToken(ctx context.Context, token string) (*query.ValidateResult, error) {
	return d.queries.ValidateToken(ctx, token)
}

// GetUserInfo is a query: read repository and token service only.
func (d *Dispatcher) GetUserInfo(ctx context.Context, token string) (*query.UserInfo, error) {
	return d.queries.GetUserInfo(ctx, token)
}
