package orders

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/gs-storefront/internal/cart"
	"github.com/angelmondragon/gs-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/gs-storefront/pkg/errors"
	"github.com/angelmondragon/gs-storefront/pkg/types"
)

const (
	idPrefix = "ORD-"
	idMin    = 1000
	idSpan   = 9000
	dateFmt  = time.DateOnly
)

// CustomerInfo is the contact and shipping data collected at checkout.
type CustomerInfo struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
}

// Validate checks the required checkout fields.
func (c CustomerInfo) Validate() error {
	if err := types.Validator().Struct(c); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer info")
	}
	return nil
}

// IDGenerator produces client-side order identifiers.
type IDGenerator interface {
	NextID() string
}

// RandomIDGenerator draws a 4-digit suffix in [1000, 9999]. Uniqueness against existing
// orders is not checked; collisions are possible.
type RandomIDGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomIDGenerator builds a generator over src. A nil src seeds from the runtime.
func NewRandomIDGenerator(src rand.Source) *RandomIDGenerator {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &RandomIDGenerator{rnd: rand.New(src)}
}

func (g *RandomIDGenerator) NextID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fmt.Sprintf("%s%d", idPrefix, idMin+g.rnd.IntN(idSpan))
}

// ValidID reports whether id has the ORD-#### shape.
func ValidID(id string) bool {
	suffix, ok := strings.CutPrefix(id, idPrefix)
	if !ok || len(suffix) != 4 {
		return false
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return false
		}
	}
	return suffix[0] != '0'
}

// Build constructs a pending order from the cart contents. Items are copied and the total
// is frozen at this point; later cart or catalog changes never touch the order.
func Build(items []types.CartItem, info CustomerInfo, now time.Time, ids IDGenerator) types.Order {
	return types.Order{
		ID:              ids.NextID(),
		CustomerName:    info.Name,
		Email:           info.Email,
		Phone:           info.Phone,
		ShippingAddress: info.Address,
		City:            info.City,
		ZipCode:         info.Zip,
		Items:           types.CloneCart(items),
		Total:           cart.Total(items),
		Status:          enums.OrderStatusPending,
		Date:            now.Format(dateFmt),
	}
}
