// Package discord owns the chat transport: slash-command registration,
// autocomplete, and the per-interaction orchestration of rate limiting, name
// resolution, price normalization, and trend rendering. Every failure is
// converted to a single user-visible message here; nothing propagates into
// discordgo unconverted, and nothing in this package is fatal to the process.
package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/logger"
	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/metrics"
	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/models"
)

// marketClient is the slice of the scout client the bot needs.
type marketClient interface {
	FetchLeagues(ctx context.Context) ([]models.LeagueRate, error)
	FetchPriceHistory(ctx context.Context, league string, fromID, toID int64, limit int) ([]models.HistoryPoint, error)
}

// catalogCache is the slice of the catalog cache the bot needs.
type catalogCache interface {
	Names(ctx context.Context, league string) ([]string, error)
	Record(ctx context.Context, league, name string) (models.ItemRecord, bool, error)
}

// limiter is the per-user request throttle.
type limiter interface {
	TryAccept(userID string) (ok bool, wait time.Duration)
}

// chartBuilder renders a trend series into an image URL.
type chartBuilder interface {
	TrendURL(itemName string, labels []string, values []float64) (string, error)
}

// Deps carries the services an interaction handler orchestrates.
type Deps struct {
	Market       marketClient
	Catalog      catalogCache
	Limiter      limiter
	Charts       chartBuilder
	Metrics      *metrics.Manager
	Threshold    int // resolver confidence threshold
	HistoryLimit int // points requested per trend
}

// Bot wraps a discordgo session and the registered application commands.
type Bot struct {
	session *discordgo.Session
	guildID string
	deps    Deps

	registered []*discordgo.ApplicationCommand
}

// New creates a Bot with an authenticated (but not yet opened) session.
func New(token, guildID string, deps Deps) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	b := &Bot{
		session: session,
		guildID: guildID,
		deps:    deps,
	}
	session.AddHandler(b.onReady)
	session.AddHandler(b.onInteraction)

	return b, nil
}

// commandDefinitions returns the application commands this bot registers.
func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "poe2",
			Description: "Check an item's market price for a league",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionString,
					Name:         "league",
					Description:  "League to price against",
					Required:     true,
					Autocomplete: true,
				},
				{
					Type:         discordgo.ApplicationCommandOptionString,
					Name:         "item",
					Description:  "Item or currency name (fuzzy matched)",
					Required:     true,
					Autocomplete: true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "trend",
					Description: "Attach a short-term price-history chart",
					Required:    false,
				},
			},
		},
		{
			Name:        "checkrate",
			Description: "Show the raw exchange-rate fields for a league",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionString,
					Name:         "league",
					Description:  "League to inspect",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
	}
}

// Run opens the gateway, registers commands, and blocks until ctx is
// canceled, then deregisters and closes the session.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway: %w", err)
	}
	defer b.session.Close()

	appID := b.session.State.User.ID
	for _, def := range commandDefinitions() {
		cmd, err := b.session.ApplicationCommandCreate(appID, b.guildID, def)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", def.Name, err)
		}
		b.registered = append(b.registered, cmd)
	}
	logger.Info("registered %d application commands", len(b.registered))

	<-ctx.Done()

	for _, cmd := range b.registered {
		if err := b.session.ApplicationCommandDelete(appID, b.guildID, cmd.ID); err != nil {
			logger.Warn("failed to deregister command %s: %v", cmd.Name, err)
		}
	}
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	logger.Info("gateway ready as %s#%s", r.User.Username, r.User.Discriminator)
}

// interactionUserID returns the invoking user's ID for both guild and DM
// interactions.
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
