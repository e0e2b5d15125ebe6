package feed

import (
	"regexp"
	"strings"
	"time"

	"roster-bot/model"

	"github.com/bwmarrin/discordgo"
)

const (
	StoreEpic  = "Epic Games"
	StoreSteam = "Steam"

	TypePermanent = "permanent"
	TypeTemporary = "temporaire"

	freeUntilLayout = "2006-01-02 15:04:05"
	maxDescription  = 500
)

var (
	boldPattern      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	untilPattern     = regexp.MustCompile(`jusqu'au (\d{2})/(\d{2})/(\d{4})`)
	epicTitleSuffix  = regexp.MustCompile(`(?i)gratuit sur l'Epic Games Store !?`)
	markdownLink     = regexp.MustCompile(`\[.*?\]\(.*?\)`)
	firstLinkPattern = regexp.MustCompile(`https?://[^\s)]+`)
)

// ParseDraftBot extracts a listing from a free-game announcement. It returns
// nil when no title can be found. now sets the default end of a temporary
// Epic offer (one week later).
func ParseDraftBot(m *discordgo.Message, now time.Time) *model.Listing {
	content := m.Content
	listing := &model.Listing{
		Platform: "PC",
		Genre:    "N/A",
		GameType: TypeTemporary,
		Store:    StoreEpic,
		Source:   "draftbot",
	}

	switch {
	case strings.Contains(content, StoreEpic):
		listing.Title = boldTitle(content)
		if listing.Title == "" && len(m.Embeds) > 0 {
			listing.Title = strings.TrimSpace(epicTitleSuffix.ReplaceAllString(m.Embeds[0].Title, ""))
		}
		var until string
		if match := untilPattern.FindStringSubmatch(content); match != nil {
			until = match[3] + "-" + match[2] + "-" + match[1] + " 23:59:59"
		} else {
			until = now.UTC().AddDate(0, 0, 7).Format(freeUntilLayout)
		}
		listing.FreeUntil = &until

	case strings.Contains(content, StoreSteam):
		listing.Title = boldTitle(content)
		listing.Store = StoreSteam
		if strings.Contains(content, "définitivement") || strings.Contains(content, "permanent") {
			listing.GameType = TypePermanent
			listing.FreeUntil = nil
		}
	}

	if len(m.Embeds) > 0 {
		embed := m.Embeds[0]
		if embed.Description != "" {
			listing.Description = truncate(markdownLink.ReplaceAllString(embed.Description, ""), maxDescription)
		}
		switch {
		case embed.Image != nil && embed.Image.URL != "":
			listing.ImageURL = embed.Image.URL
		case embed.Thumbnail != nil && embed.Thumbnail.URL != "":
			listing.ImageURL = embed.Thumbnail.URL
		}
		if embed.URL != "" {
			listing.GameURL = embed.URL
		}
	}

	if listing.GameURL == "" {
		listing.GameURL = firstLinkPattern.FindString(content)
	}

	if listing.Title == "" {
		return nil
	}
	return listing
}

func boldTitle(content string) string {
	if match := boldPattern.FindStringSubmatch(content); match != nil {
		return strings.TrimSpace(match[1])
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
