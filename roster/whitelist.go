package roster

import (
	"context"
	"fmt"
	"log"
	"strings"

	"roster-bot/antispam"
	"roster-bot/model"
)

// normalizeDomainInput accepts a bare domain or a full URL.
func normalizeDomainInput(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	domain := antispam.NormalizeDomain(raw)
	if strings.Contains(raw, "://") {
		d, ok := antispam.DomainOf(raw)
		if !ok {
			return "", model.Invalid("domain", "URL invalide : %s", raw)
		}
		domain = d
	}
	if !strings.Contains(domain, ".") || strings.ContainsAny(domain, " /\\@") {
		return "", model.Invalid("domain", "domaine invalide : %s", raw)
	}
	return domain, nil
}

func (s *Service) AddWhitelistDomain(ctx context.Context, raw string) (string, error) {
	domain, err := normalizeDomainInput(raw)
	if err != nil {
		return "", err
	}
	added, err := s.repo.AddDomain(ctx, domain)
	if err != nil {
		return "", err
	}
	if !added {
		return fmt.Sprintf("ℹ️ `%s` est déjà autorisé.", domain), nil
	}
	return fmt.Sprintf("✅ `%s` ajouté à la liste blanche (sous-domaines inclus).", domain), nil
}

func (s *Service) RemoveWhitelistDomain(ctx context.Context, raw string) (string, error) {
	domain, err := normalizeDomainInput(raw)
	if err != nil {
		return "", err
	}
	removed, err := s.repo.RemoveDomain(ctx, domain)
	if err != nil {
		return "", err
	}
	if !removed {
		return "", model.Invalid("domain", "`%s` n'est pas dans la liste blanche", domain)
	}
	return fmt.Sprintf("🗑️ `%s` retiré de la liste blanche.", domain), nil
}

func (s *Service) AddWhitelistChannel(ctx context.Context, channelID string) (string, error) {
	if channelID == "" {
		return "", model.Invalid("channel", "salon manquant")
	}
	added, err := s.repo.AddChannel(ctx, channelID)
	if err != nil {
		return "", err
	}
	if !added {
		return fmt.Sprintf("ℹ️ <#%s> est déjà exempté.", channelID), nil
	}
	return fmt.Sprintf("✅ Les liens sont autorisés dans <#%s>.", channelID), nil
}

func (s *Service) RemoveWhitelistChannel(ctx context.Context, channelID string) (string, error) {
	removed, err := s.repo.RemoveChannel(ctx, channelID)
	if err != nil {
		return "", err
	}
	if !removed {
		return "", model.Invalid("channel", "<#%s> n'est pas exempté", channelID)
	}
	return fmt.Sprintf("🗑️ <#%s> n'est plus exempté.", channelID), nil
}

func (s *Service) ListWhitelist(ctx context.Context) (string, error) {
	wl, err := s.repo.Whitelist(ctx)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("**Domaines autorisés**\n")
	if len(wl.Domains) == 0 {
		b.WriteString("aucun\n")
	}
	for _, d := range wl.Domains {
		fmt.Fprintf(&b, "• `%s`\n", d)
	}
	b.WriteString("**Salons exemptés**\n")
	if len(wl.Channels) == 0 {
		b.WriteString("aucun")
	}
	for i, c := range wl.Channels {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "• <#%s>", c)
	}
	return b.String(), nil
}

// SeedWhitelist fills an empty whitelist from the settings file. A store that
// already holds entries is left alone so admin removals survive restarts.
func (s *Service) SeedWhitelist(ctx context.Context, domains, channels []string) (int, error) {
	wl, err := s.repo.Whitelist(ctx)
	if err != nil {
		return 0, err
	}
	if len(wl.Domains) > 0 || len(wl.Channels) > 0 {
		return 0, nil
	}
	added := 0
	for _, raw := range domains {
		domain, err := normalizeDomainInput(raw)
		if err != nil {
			log.Printf("Skipping seed domain %q: %v", raw, err)
			continue
		}
		ok, err := s.repo.AddDomain(ctx, domain)
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	for _, ch := range channels {
		ok, err := s.repo.AddChannel(ctx, ch)
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	return added, nil
}
