// Package mocks provides gomock implementations of the auth ports for service and HTTP tests.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	users := mocks.NewMockCredentialStore(ctrl)
//	users.EXPECT().FindByUsername(gomock.Any(), "alice").Return(user, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=credential_store_mock.go github.com/target/mmk-auth-api/internal/ports CredentialStore
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_ledger_mock.go github.com/target/mmk-auth-api/internal/ports SessionLedger
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=password_hasher_mock.go github.com/target/mmk-auth-api/internal/ports PasswordHasher
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=token_service_mock.go github.com/target/mmk-auth-api/internal/ports TokenService
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=revocation_registry_mock.go github.com/target/mmk-auth-api/internal/ports RevocationRegistry
