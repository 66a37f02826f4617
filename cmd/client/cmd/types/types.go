package types

type contextKey string

// ClientAppKey locates the initialized client app in a command context.
const ClientAppKey contextKey = "clientApp"
