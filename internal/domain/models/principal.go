package models

// Principal is an authenticated identity together with the accounts it may
// act on. It is produced by the credential store at login and is not
// persisted by the core; the authorized set is snapshotted into the issued
// token and stays fixed for that token's lifetime.
type Principal struct {
	Subject  string
	Accounts []Account
}

// AccountIDs returns the authorized account identifiers in store order.
func (p *Principal) AccountIDs() []string {
	ids := make([]string, 0, len(p.Accounts))
	for _, a := range p.Accounts {
		ids = append(ids, a.ID)
	}
	return ids
}
