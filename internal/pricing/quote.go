package pricing

// Quote is the priced form of a submission.
type Quote struct {
	Phone        string
	Parts        int
	PricePerPart int64
	Cost         int64
	Prefix       string
	Country      string
}

// Quote validates the destination and the message (in that order) and
// prices them. The result is the authoritative amount to charge.
func (t *Table) Quote(rawPhone, message string) (Quote, error) {
	phone, err := NormalizePhone(rawPhone)
	if err != nil {
		return Quote{}, err
	}

	parts, err := Parts(message)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{
		Phone:        phone,
		Parts:        parts,
		PricePerPart: t.defaultPrice,
	}

	r, ok := t.Match(phone)
	if ok {
		q.PricePerPart = r.CoinsPerPart
		q.Prefix = r.Prefix
		q.Country = r.Country
	}

	q.Cost = q.PricePerPart * int64(parts)

	return q, nil
}
