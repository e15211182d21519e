package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/logger"
	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/models"
)

// maxChoices is Discord's cap on select/autocomplete entries.
const maxChoices = 25

// interactionTimeout bounds all upstream work for one interaction.
const interactionTimeout = 15 * time.Second

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(s, i)
	case discordgo.InteractionApplicationCommandAutocomplete:
		b.handleAutocomplete(s, i)
	}
}

func (b *Bot) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	reqID := uuid.New().String()
	userID := interactionUserID(i)

	b.deps.Metrics.RecordCommand(data.Name)
	logger.Info("[%s] /%s from user %s", reqID, data.Name, userID)

	// Throttle before any upstream work. Rejections answer immediately and
	// ephemerally; only accepted requests proceed to the deferred reply.
	if ok, wait := b.deps.Limiter.TryAccept(userID); !ok {
		b.deps.Metrics.RecordRateLimited()
		b.respondError(s, i, data.Name, reqID, &models.RateLimitedError{Wait: wait})
		return
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		logger.Error("[%s] failed to defer: %v", reqID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	var embed *discordgo.MessageEmbed
	var err error
	switch data.Name {
	case "poe2":
		opts := optionMap(data.Options)
		wantTrend := false
		if opt, ok := opts["trend"]; ok {
			wantTrend = opt.BoolValue()
		}
		embed, err = b.deps.priceCheck(ctx, stringOption(opts, "league"), stringOption(opts, "item"), wantTrend)
	case "checkrate":
		opts := optionMap(data.Options)
		embed, err = b.deps.rateCheck(ctx, stringOption(opts, "league"))
	default:
		err = fmt.Errorf("unknown command %s", data.Name)
	}

	if err != nil {
		kind, msg := userMessage(err)
		b.deps.Metrics.RecordCommandError(data.Name, kind)
		logger.Error("[%s] /%s failed (%s): %v", reqID, data.Name, kind, err)
		if _, editErr := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &msg}); editErr != nil {
			logger.Error("[%s] failed to edit response: %v", reqID, editErr)
		}
		return
	}

	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	}); err != nil {
		logger.Error("[%s] failed to edit response: %v", reqID, err)
	}
}

// respondError answers an interaction that was not deferred yet.
func (b *Bot) respondError(s *discordgo.Session, i *discordgo.InteractionCreate, command, reqID string, cause error) {
	kind, msg := userMessage(cause)
	b.deps.Metrics.RecordCommandError(command, kind)
	logger.Info("[%s] /%s rejected (%s)", reqID, command, kind)
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		logger.Error("[%s] failed to respond: %v", reqID, err)
	}
}

func (b *Bot) handleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	data := i.ApplicationCommandData()
	opts := optionMap(data.Options)

	var choices []*discordgo.ApplicationCommandOptionChoice
	switch {
	case focused(opts, "league"):
		choices = b.deps.leagueChoices(ctx, stringOption(opts, "league"))
	case focused(opts, "item"):
		choices = b.deps.itemChoices(ctx, stringOption(opts, "league"), stringOption(opts, "item"))
	}

	// Autocomplete never surfaces errors; an empty list is the degraded state.
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	}); err != nil {
		logger.Debug("autocomplete respond failed: %v", err)
	}
}

// leagueChoices suggests league identifiers matching the typed prefix.
func (d Deps) leagueChoices(ctx context.Context, typed string) []*discordgo.ApplicationCommandOptionChoice {
	rates, err := d.Market.FetchLeagues(ctx)
	if err != nil {
		logger.Debug("league autocomplete degraded: %v", err)
		return nil
	}
	names := make([]string, 0, len(rates))
	for _, r := range rates {
		names = append(names, r.League)
	}
	return choicesFrom(filterContains(names, typed))
}

// itemChoices suggests catalog names for the chosen league containing the
// typed fragment. The catalog cache absorbs the per-keystroke call rate.
func (d Deps) itemChoices(ctx context.Context, league, typed string) []*discordgo.ApplicationCommandOptionChoice {
	if league == "" {
		return nil
	}
	names, err := d.Catalog.Names(ctx, league)
	if err != nil {
		logger.Debug("item autocomplete degraded: %v", err)
		return nil
	}
	return choicesFrom(filterContains(names, typed))
}

// filterContains returns names containing the fragment, case-insensitive,
// capped at maxChoices. An empty fragment passes everything.
func filterContains(names []string, fragment string) []string {
	fragment = strings.ToLower(strings.TrimSpace(fragment))
	out := make([]string, 0, maxChoices)
	for _, name := range names {
		if fragment != "" && !strings.Contains(strings.ToLower(name), fragment) {
			continue
		}
		out = append(out, name)
		if len(out) == maxChoices {
			break
		}
	}
	return out
}

func choicesFrom(names []string) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(names))
	for _, name := range names {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: name})
	}
	return choices
}

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := opts[name]; ok {
		return opt.StringValue()
	}
	return ""
}

func focused(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) bool {
	opt, ok := opts[name]
	return ok && opt.Focused
}

// userMessage converts an internal error into its user-visible message and a
// metrics label. Exactly one message per error kind, per the propagation
// policy: the chat layer never sees raw internals.
func userMessage(err error) (kind, msg string) {
	var limited *models.RateLimitedError
	var noMatch *models.NoMatchError
	switch {
	case errors.As(err, &limited):
		secs := int(limited.Wait.Seconds() + 0.999) // round up, never report 0s
		return "rate_limited", fmt.Sprintf("⏳ Please wait %d more second(s).", secs)
	case errors.As(err, &noMatch):
		return "no_match", fmt.Sprintf("❌ No item matching '%s'. Try refining the name.", noMatch.Query)
	case errors.Is(err, models.ErrMarketUnavailable):
		return "market_unavailable", "⚠️ Market data is unavailable right now. Please try again."
	default:
		return "internal", "⚠️ Something went wrong. Please try again."
	}
}
