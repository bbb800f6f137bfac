package service

import (
	"context"

	"CoinScope/internal/domain/models"
)

// SocialProvider fetches social-activity stats for a symbol.
type SocialProvider interface {
	Stats(ctx context.Context, symbol string) (models.SocialStats, error)
}
