package mailbox

import (
	"fmt"
	"math/rand"

	"EMAILTESTHUB_BACK-END/internal/models"
)

// Account is one entry in the mailbox pool listing
type Account struct {
	ID        string
	Address   string
	UUID      string
	Available bool
}

// Allocator assigns a mailbox to a placement test. A real deployment
// would back this with the Email Guard account service; the mock
// implementation stands in for it.
type Allocator interface {
	// Allocate binds an account handle for the given pool account id.
	Allocate(accountID string) models.EmailAccount
	// List returns the current mailbox pool.
	List() []Account
}

const poolSize = 8

// MockAllocator hands out addresses from a fixed fake pool
type MockAllocator struct{}

// NewMockAllocator creates a new MockAllocator
func NewMockAllocator() *MockAllocator {
	return &MockAllocator{}
}

func (a *MockAllocator) Allocate(accountID string) models.EmailAccount {
	return models.EmailAccount{
		Address: fmt.Sprintf("test%d@example.com", rand.Intn(poolSize)+1),
		UUID:    fmt.Sprintf("uuid-%s", accountID),
	}
}

func (a *MockAllocator) List() []Account {
	accounts := make([]Account, 0, poolSize)
	for i := 0; i < poolSize; i++ {
		accounts = append(accounts, Account{
			ID:        fmt.Sprintf("email-%d", i),
			Address:   fmt.Sprintf("test%d@example.com", i+1),
			UUID:      fmt.Sprintf("uuid-%d", i),
			Available: i%3 != 0, // some unavailable to simulate real usage
		})
	}
	return accounts
}
