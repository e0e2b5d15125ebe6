package records

import (
	"context"
	"fmt"

	"roster-bot/model"
)

// Whitelist returns the allowed domains and exempt channels, sorted.
func (r *Repository) Whitelist(ctx context.Context) (model.WhitelistConfig, error) {
	wl := model.WhitelistConfig{Domains: []string{}, Channels: []string{}}
	if err := r.db.SelectContext(ctx, &wl.Domains, "SELECT domain FROM whitelist_domains ORDER BY domain"); err != nil {
		return wl, fmt.Errorf("failed to list whitelisted domains: %w", err)
	}
	if err := r.db.SelectContext(ctx, &wl.Channels, "SELECT channel_id FROM whitelist_channels ORDER BY channel_id"); err != nil {
		return wl, fmt.Errorf("failed to list whitelisted channels: %w", err)
	}
	return wl, nil
}

func (r *Repository) exec(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return n > 0, nil
}

// AddDomain whitelists a domain. It reports false if it was already listed.
func (r *Repository) AddDomain(ctx context.Context, domain string) (bool, error) {
	added, err := r.exec(ctx, "INSERT OR IGNORE INTO whitelist_domains (domain) VALUES (?)", domain)
	if err != nil {
		return false, fmt.Errorf("failed to whitelist domain %s: %w", domain, err)
	}
	return added, nil
}

// RemoveDomain reports false if the domain was not listed.
func (r *Repository) RemoveDomain(ctx context.Context, domain string) (bool, error) {
	removed, err := r.exec(ctx, "DELETE FROM whitelist_domains WHERE domain = ?", domain)
	if err != nil {
		return false, fmt.Errorf("failed to remove domain %s: %w", domain, err)
	}
	return removed, nil
}

func (r *Repository) AddChannel(ctx context.Context, channelID string) (bool, error) {
	added, err := r.exec(ctx, "INSERT OR IGNORE INTO whitelist_channels (channel_id) VALUES (?)", channelID)
	if err != nil {
		return false, fmt.Errorf("failed to whitelist channel %s: %w", channelID, err)
	}
	return added, nil
}

func (r *Repository) RemoveChannel(ctx context.Context, channelID string) (bool, error) {
	removed, err := r.exec(ctx, "DELETE FROM whitelist_channels WHERE channel_id = ?", channelID)
	if err != nil {
		return false, fmt.Errorf("failed to remove channel %s: %w", channelID, err)
	}
	return removed, nil
}
