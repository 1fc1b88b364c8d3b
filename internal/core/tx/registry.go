package tx

import "fmt"

// factory creates an empty operation of a given type, ready to be decoded
// into from a submission.
type factory func() Transaction

var registry = map[string]factory{}

// Register adds an operation constructor under name. Called from init;
// duplicate registration is a programming error.
func Register(name string, fn factory) {
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("tx: operation %q registered twice", name))
	}
	registry[name] = fn
}

// New returns an empty operation for name, or an error if the name is
// unknown.
func New(name string) (Transaction, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown operation type %q", name)
	}
	return fn(), nil
}

// RegisteredTypes lists the registered operation names.
func RegisteredTypes() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

func init() {
	Register("create", func() Transaction { return &CreateMarketplace{} })
	Register("update", func() Transaction { return &UpdateMarketplace{} })
	Register("withdraw_treasury", func() Transaction { return &WithdrawFromTreasury{} })
	Register("withdraw_fee", func() Transaction { return &WithdrawFromFee{} })
	Register("ask", func() Transaction { return &Ask{} })
	Register("bid", func() Transaction { return &Bid{} })
	Register("execute_sale", func() Transaction { return &ExecuteSale{} })
	Register("cancel", func() Transaction { return &Cancel{} })
}
