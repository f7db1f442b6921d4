package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/class_credits_crm/internal/core/domain"
	"github.com/SscSPs/class_credits_crm/internal/models"
)

// ToModelClient converts a domain Client to its row, encoding the nested lists.
func ToModelClient(d domain.Client) (models.Client, error) {
	children, err := marshalList(d.Children)
	if err != nil {
		return models.Client{}, fmt.Errorf("encode children of client %s: %w", d.ClientID, err)
	}
	guardians, err := marshalList(d.Guardians)
	if err != nil {
		return models.Client{}, fmt.Errorf("encode guardians of client %s: %w", d.ClientID, err)
	}
	return models.Client{
		ClientID:         d.ClientID,
		PhoneNumber:      d.PhoneNumber,
		CampaignSource:   d.CampaignSource,
		CreditsRemaining: d.CreditsRemaining,
		MoneyBalance:     d.MoneyBalance,
		Children:         children,
		Guardians:        guardians,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainClient converts a clients row to a domain Client.
func ToDomainClient(m models.Client) (domain.Client, error) {
	d := domain.Client{
		ClientID:         m.ClientID,
		PhoneNumber:      m.PhoneNumber,
		CampaignSource:   m.CampaignSource,
		CreditsRemaining: m.CreditsRemaining,
		MoneyBalance:     m.MoneyBalance,
		Children:         []domain.Child{},
		Guardians:        []domain.Guardian{},
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
	if err := unmarshalList(m.Children, &d.Children); err != nil {
		return domain.Client{}, fmt.Errorf("decode children of client %s: %w", m.ClientID, err)
	}
	if err := unmarshalList(m.Guardians, &d.Guardians); err != nil {
		return domain.Client{}, fmt.Errorf("decode guardians of client %s: %w", m.ClientID, err)
	}
	return d, nil
}

// ToDomainClientSlice converts rows to domain clients.
func ToDomainClientSlice(ms []models.Client) ([]domain.Client, error) {
	out := make([]domain.Client, 0, len(ms))
	for _, m := range ms {
		d, err := ToDomainClient(m)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// marshalList encodes a nil slice as [] so the column is never JSON null.
func marshalList[T any](list []T) ([]byte, error) {
	if list == nil {
		list = []T{}
	}
	return json.Marshal(list)
}

func unmarshalList[T any](raw []byte, dst *[]T) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return err
	}
	if *dst == nil {
		*dst = []T{}
	}
	return nil
}
