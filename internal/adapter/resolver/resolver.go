package resolver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"user-directory-service/internal/metrics"
	"user-directory-service/internal/usecase/user"
	apperrors "user-directory-service/pkg/errors"
	"user-directory-service/pkg/logger"
)

type resolveFunc func(ctx context.Context, args Arguments) (any, error)

type operation struct {
	kind    Kind
	resolve resolveFunc
}

// Resolver dispatches named operations to the user service and shapes
// results and failures into a Response.
type Resolver struct {
	uc  user.Usecase
	log *zap.Logger
	ops map[string]operation
}

// New creates a Resolver with every user query and mutation registered.
func New(uc user.Usecase, log *zap.Logger) *Resolver {
	r := &Resolver{uc: uc, log: log}
	r.ops = map[string]operation{
		"getAllUsers":       {KindQuery, r.getAllUsers},
		"getUserById":       {KindQuery, r.getUserByID},
		"getUserByEmail":    {KindQuery, r.getUserByEmail},
		"searchUsersByName": {KindQuery, r.searchUsersByName},
		"searchUsers":       {KindQuery, r.searchUsers},
		"getUserCount":      {KindQuery, r.getUserCount},
		"userExists":        {KindQuery, r.userExists},
		"emailExists":       {KindQuery, r.emailExists},
		"createUser":        {KindMutation, r.createUser},
		"updateUser":        {KindMutation, r.updateUser},
		"deleteUser":        {KindMutation, r.deleteUser},
	}
	return r
}

// Operations lists the registered operation names of the given kind, sorted.
func (r *Resolver) Operations(kind Kind) []string {
	names := make([]string, 0, len(r.ops))
	for name, op := range r.ops {
		if op.kind == kind {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Execute runs one operation. It never returns a Go error; every failure is
// reported as exactly one entry in Response.Errors.
func (r *Resolver) Execute(ctx context.Context, req Request) (resp Response) {
	name := req.Operation
	ctx = logger.WithOperation(ctx, name)
	log := logger.WithContext(ctx, r.log)
	start := time.Now()

	op, ok := r.ops[name]
	kind := op.kind
	if !ok {
		kind = "unknown"
	}

	defer func() {
		if p := recover(); p != nil {
			log.Error("operation panicked", zap.Any("panic", p), zap.Stack("stack"))
			resp = r.failure(log, name, apperrors.NewInternalError("operation panicked", fmt.Errorf("%v", p)))
		}
		outcome := "ok"
		if len(resp.Errors) > 0 {
			outcome = resp.Errors[0].Category
		}
		metrics.OperationsTotal.WithLabelValues(name, string(kind), outcome).Inc()
		metrics.OperationDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()

	if !ok {
		return r.failure(log, name, apperrors.NewArgumentError("operation", fmt.Sprintf("%q is not supported", name)))
	}

	result, err := op.resolve(ctx, Arguments(req.Arguments))
	if err != nil {
		return r.failure(log, name, err)
	}

	log.Debug("operation resolved", zap.String("kind", string(op.kind)))
	return Response{Data: map[string]any{name: result}}
}

func (r *Resolver) failure(log *zap.Logger, name string, err error) Response {
	c := apperrors.Classify(err)
	if c.Category == apperrors.CategoryInternalError {
		log.Error("operation failed", zap.Error(err))
	} else {
		log.Warn("operation rejected", zap.String("category", string(c.Category)), zap.String("reason", c.Message))
	}

	return Response{
		Data: map[string]any{name: nil},
		Errors: []ErrorEntry{{
			Category: string(c.Category),
			Message:  c.Message,
			Path:     []string{name},
		}},
	}
}

func (r *Resolver) getAllUsers(ctx context.Context, _ Arguments) (any, error) {
	users, err := r.uc.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return NewUserViews(users), nil
}

func (r *Resolver) getUserByID(ctx context.Context, args Arguments) (any, error) {
	id, err := args.ID("id")
	if err != nil {
		return nil, err
	}
	u, err := r.uc.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewUserView(u), nil
}

func (r *Resolver) getUserByEmail(ctx context.Context, args Arguments) (any, error) {
	email, err := args.String("email")
	if err != nil {
		return nil, err
	}
	u, err := r.uc.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	return NewUserView(u), nil
}

func (r *Resolver) searchUsersByName(ctx context.Context, args Arguments) (any, error) {
	name, err := args.String("name")
	if err != nil {
		return nil, err
	}
	users, err := r.uc.SearchUsersByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return NewUserViews(users), nil
}

func (r *Resolver) searchUsers(ctx context.Context, args Arguments) (any, error) {
	criteria, err := args.Criteria()
	if err != nil {
		return nil, err
	}
	users, err := r.uc.SearchUsers(ctx, criteria)
	if err != nil {
		return nil, err
	}
	return NewUserViews(users), nil
}

func (r *Resolver) getUserCount(ctx context.Context, _ Arguments) (any, error) {
	return r.uc.CountUsers(ctx)
}

func (r *Resolver) userExists(ctx context.Context, args Arguments) (any, error) {
	id, err := args.ID("id")
	if err != nil {
		return nil, err
	}
	return r.uc.UserExists(ctx, id)
}

func (r *Resolver) emailExists(ctx context.Context, args Arguments) (any, error) {
	email, err := args.String("email")
	if err != nil {
		return nil, err
	}
	return r.uc.EmailExists(ctx, email)
}

func (r *Resolver) createUser(ctx context.Context, args Arguments) (any, error) {
	in, err := args.Input("input")
	if err != nil {
		return nil, err
	}
	u, err := r.uc.CreateUser(ctx, in)
	if err != nil {
		return nil, err
	}
	return NewUserView(u), nil
}

func (r *Resolver) updateUser(ctx context.Context, args Arguments) (any, error) {
	id, err := args.ID("id")
	if err != nil {
		return nil, err
	}
	in, err := args.Input("input")
	if err != nil {
		return nil, err
	}
	u, err := r.uc.UpdateUser(ctx, id, in)
	if err != nil {
		return nil, err
	}
	return NewUserView(u), nil
}

func (r *Resolver) deleteUser(ctx context.Context, args Arguments) (any, error) {
	id, err := args.ID("id")
	if err != nil {
		return nil, err
	}
	return r.uc.DeleteUser(ctx, id)
}

// ErrUnknownOperation is returned by Kind for unregistered names.
var ErrUnknownOperation = errors.New("unknown operation")

// Kind reports whether name is a query or a mutation.
func (r *Resolver) Kind(name string) (Kind, error) {
	op, ok := r.ops[name]
	if !ok {
		return "", ErrUnknownOperation
	}
	return op.kind, nil
}
