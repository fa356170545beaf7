package billing

import "context"

// Customer is the provider-side record for a paying user.
type Customer struct {
	ID string
}

// Subscription is the provider-side subscription state. ClientSecret is
// handed to the frontend to confirm the initial payment.
type Subscription struct {
	ID           string
	Status       string
	ClientSecret string
}

// Provider abstracts the external payment processor. The core only ever
// creates customers and subscriptions and reads them back; everything else
// about billing stays on the provider's side.
type Provider interface {
	CreateCustomer(ctx context.Context, email, name string) (*Customer, error)
	CreateSubscription(ctx context.Context, customerID, priceID string) (*Subscription, error)
	RetrieveSubscription(ctx context.Context, subscriptionID string) (*Subscription, error)
}
