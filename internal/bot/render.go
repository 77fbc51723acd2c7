package bot

import (
	"time"

	"tickerbot/pkg/discord"
	"tickerbot/pkg/reply"
)

const (
	ColorPositive = 0x00ff00
	ColorNegative = 0xff0000

	// blank field name used for full-width text rows
	blankFieldName = "\u200b"
)

// EmbedColor maps a reply color to an embed color. Neutral shares the
// positive green.
func EmbedColor(c reply.Color) int {
	if c == reply.Negative {
		return ColorNegative
	}
	return ColorPositive
}

// RenderEmbed converts r into a Discord embed. When imageName is set the
// embed shows the attachment of that name.
func RenderEmbed(r reply.Reply, imageName string) discord.Embed {
	e := discord.Embed{
		Title: r.Title,
		Color: EmbedColor(r.Color),
	}

	for _, f := range r.Fields {
		e.Fields = append(e.Fields, discord.EmbedField{Name: f.Label, Value: f.Value, Inline: f.Inline})
	}
	if len(r.ChartLinks) > 0 {
		e.Fields = append(e.Fields, discord.EmbedField{Name: blankFieldName, Value: reply.LinksMarkdown(r.ChartLinks)})
	}
	if r.Extra != "" {
		e.Fields = append(e.Fields, discord.EmbedField{Name: blankFieldName, Value: r.Extra})
	}

	if r.Footer != "" {
		e.Footer = &discord.EmbedFooter{Text: r.Footer}
	}
	if !r.Timestamp.IsZero() {
		e.Timestamp = r.Timestamp.UTC().Format(time.RFC3339)
	}
	if imageName != "" {
		e.Image = &discord.EmbedImage{URL: "attachment://" + imageName}
	}
	return e
}
