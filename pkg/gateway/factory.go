package gateway

import "fmt"

// New returns the gateway implementation selected by configuration.
func New(name, midtransServerKey string, midtransProduction bool) (Gateway, error) {
	switch name {
	case "midtrans":
		if midtransServerKey == "" {
			return nil, fmt.Errorf("midtrans gateway requires a server key")
		}
		return NewMidtrans(midtransServerKey, midtransProduction), nil
	case "sandbox", "":
		return NewSandbox(), nil
	default:
		return nil, fmt.Errorf("unsupported payment gateway: %s", name)
	}
}
