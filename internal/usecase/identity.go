package usecase

// Identity is the authenticated caller's snapshot, extracted from the
// verified token by the auth middleware. Name and Email are copied
// onto the records the caller creates so reads never need a join back
// to the identity provider.
type Identity struct {
	ID    string
	Name  string
	Email string
}
