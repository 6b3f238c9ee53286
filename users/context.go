package users

import "context"

type contextKey string

const accountContextKey contextKey = "account"

// NewContextWithAccount returns a child of ctx carrying the authenticated account.
func NewContextWithAccount(ctx context.Context, account *Account) context.Context {
	return context.WithValue(ctx, accountContextKey, account)
}

// AccountFromContext returns the account stored by NewContextWithAccount.
func AccountFromContext(ctx context.Context) (*Account, bool) {
	account, ok := ctx.Value(accountContextKey).(*Account)
	return account, ok && account != nil
}
