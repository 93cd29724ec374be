package services

import (
	"context"

	"github.com/heurekka/heurekka/internal/domain/dto"
	"github.com/heurekka/heurekka/internal/infrastructure/database/models"
)

// External collaborator interfaces. The implementations live outside this
// repository; the domain services only depend on these contracts.

// Messenger is the WhatsApp integration: it turns a listing inquiry into a
// prefilled conversation with the landlord.
type Messenger interface {
	// ContactLink returns a deep link opening a conversation with the
	// property's landlord, prefilled with the inquiry.
	ContactLink(property *models.Property, inquiry dto.ContactRequest) (string, error)

	// SendInquiry delivers the inquiry directly to the landlord's number.
	SendInquiry(ctx context.Context, phone string, inquiry dto.ContactRequest) error
}

// SearchParser is the smart-search natural-language parser: it turns free
// text like "2 bedroom apartment near UNAH under 12000" into structured
// search parameters.
type SearchParser interface {
	Parse(ctx context.Context, query string) (dto.SearchParams, error)
}
