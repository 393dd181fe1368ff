package banking

import (
	"context"
	"fmt"

	"spine/internal/infrastructure/plaid"
	"spine/internal/shared/logger"
	"spine/internal/shared/validation"
)

// LinkService connects bank items for a user.
type LinkService struct {
	client plaid.ClientInterface
	links  LinkRepository
}

func NewLinkService(client plaid.ClientInterface, links LinkRepository) *LinkService {
	return &LinkService{client: client, links: links}
}

func (s *LinkService) CreateLinkToken(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", validation.New("Missing user_id")
	}

	token, err := s.client.CreateLinkToken(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to create link token: %w", err)
	}
	return token, nil
}

// ExchangePublicToken trades the Link public token for an access token,
// stores the new link and returns the institution name.
func (s *LinkService) ExchangePublicToken(ctx context.Context, publicToken, userID string) (string, error) {
	if publicToken == "" || userID == "" {
		return "", validation.New("Missing required fields")
	}

	exchange, err := s.client.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return "", fmt.Errorf("failed to exchange public token: %w", err)
	}

	item, err := s.client.GetItem(ctx, exchange.AccessToken)
	if err != nil {
		return "", fmt.Errorf("failed to get item: %w", err)
	}

	institutionName := UnknownInstitution
	if item.InstitutionID != nil && *item.InstitutionID != "" {
		name, err := s.client.GetInstitutionName(ctx, *item.InstitutionID)
		if err != nil {
			return "", fmt.Errorf("failed to get institution: %w", err)
		}
		institutionName = name
	}

	link, err := s.links.Create(ctx, &Link{
		UserID:          userID,
		AccessToken:     exchange.AccessToken,
		ItemID:          exchange.ItemID,
		InstitutionName: institutionName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to save bank connection: %w", err)
	}

	l := logger.FromContext(ctx)
	l.Info().
		Str("user_id", userID).
		Str("link_id", link.ID).
		Str("institution", institutionName).
		Msg("bank linked")

	return institutionName, nil
}

func (s *LinkService) ListLinks(ctx context.Context, userID string) ([]*Link, error) {
	if userID == "" {
		return nil, validation.New("Missing user_id")
	}
	return s.links.ListByUserID(ctx, userID)
}
