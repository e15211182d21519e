package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/logger"
	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/models"
	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/pricing"
	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/resolver"
	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/trend"
)

// priceCheck runs the full /poe2 pipeline for one accepted interaction:
// league rates → catalog/resolver → record lookup → normalization →
// optional trend. The rate limiter has already admitted the request.
func (d Deps) priceCheck(ctx context.Context, league, query string, wantTrend bool) (*discordgo.MessageEmbed, error) {
	rates, err := d.Market.FetchLeagues(ctx)
	if err != nil {
		return nil, err
	}
	rate := rateFor(rates, league)

	names, err := d.Catalog.Names(ctx, league)
	if err != nil {
		return nil, err
	}

	match := resolver.Resolve(query, names)
	if !match.Found(d.threshold()) {
		return nil, &models.NoMatchError{Query: query}
	}

	record, ok, err := d.Catalog.Record(ctx, league, match.Name)
	if err != nil {
		return nil, err
	}
	if !ok {
		// The catalog was replaced between Names and Record; treat as a miss.
		return nil, &models.NoMatchError{Query: query}
	}

	price := pricing.Normalize(record.CurrentPrice, rate)
	embed := priceEmbed(league, record, price, rate)

	if wantTrend {
		d.attachTrend(ctx, embed, league, record)
	}

	return embed, nil
}

// rateCheck runs the /checkrate diagnostic: the league's rate fields as the
// upstream reports them (after documented default substitution).
func (d Deps) rateCheck(ctx context.Context, league string) (*discordgo.MessageEmbed, error) {
	rates, err := d.Market.FetchLeagues(ctx)
	if err != nil {
		return nil, err
	}

	for _, rate := range rates {
		if rate.League == league {
			return rateEmbed(rate, true), nil
		}
	}
	// League entirely absent upstream: report the documented defaults.
	return rateEmbed(models.DefaultRate(league), false), nil
}

// rateFor finds the league's rate, falling back to documented defaults when
// the upstream has no entry for it at all.
func rateFor(rates []models.LeagueRate, league string) models.LeagueRate {
	for _, rate := range rates {
		if rate.League == league {
			return rate
		}
	}
	logger.Warn("league %s has no rate entry, using defaults", league)
	return models.DefaultRate(league)
}

// attachTrend fetches and renders the price history onto the embed. Trend
// failures degrade to a notice field; they never fail a priced reply.
func (d Deps) attachTrend(ctx context.Context, embed *discordgo.MessageEmbed, league string, record models.ItemRecord) {
	if record.ID == 0 {
		addTrendNotice(embed, "No price history for this item yet.")
		return
	}

	history, err := d.Market.FetchPriceHistory(ctx, league, record.ID, 0, d.historyLimit())
	if err != nil {
		logger.Warn("trend fetch for %s/%s failed: %v", league, record.Name, err)
		addTrendNotice(embed, "Price history is unavailable right now.")
		return
	}

	series := trend.ToSeries(history)
	if len(series) == 0 {
		addTrendNotice(embed, "No price history for this item yet.")
		return
	}

	url, err := d.Charts.TrendURL(record.Name, trend.Labels(series), trend.Values(series))
	if err != nil {
		logger.Warn("chart build for %s failed: %v", record.Name, err)
		addTrendNotice(embed, "Price history is unavailable right now.")
		return
	}
	embed.Image = &discordgo.MessageEmbedImage{URL: url}
}

func (d Deps) threshold() int {
	if d.Threshold > 0 {
		return d.Threshold
	}
	return resolver.DefaultThreshold
}

func (d Deps) historyLimit() int {
	if d.HistoryLimit > 1 {
		return d.HistoryLimit
	}
	return 24
}

// priceEmbed builds the /poe2 reply: item, tier-normalized price, tier
// accent color, exchange-rate footer, and icon thumbnail when present.
func priceEmbed(league string, record models.ItemRecord, price pricing.Price, rate models.LeagueRate) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("💰 %s Market Price", league),
		Color: price.Tier.Color(),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Item", Value: record.Name, Inline: false},
			{Name: "Market Price", Value: fmt.Sprintf("**%s**", price.String()), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: pricing.RateFooter(rate)},
	}
	if record.IconURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: record.IconURL}
	}
	return embed
}

// rateEmbed builds the /checkrate diagnostic reply.
func rateEmbed(rate models.LeagueRate, known bool) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📊 League: %s", rate.League),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "divinePrice (Ex per Div)", Value: fmt.Sprintf("`%v`", rate.DivinePrice), Inline: true},
			{Name: "chaosDivinePrice (Chaos per Div)", Value: fmt.Sprintf("`%v`", rate.ChaosDivinePrice), Inline: true},
		},
	}
	if !known {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "League not found upstream; showing default rates."}
	}
	return embed
}

// addTrendNotice appends an explicit no-chart state instead of an empty or
// degenerate image.
func addTrendNotice(embed *discordgo.MessageEmbed, notice string) {
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "Trend", Value: notice, Inline: false,
	})
}
