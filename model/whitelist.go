package model

// WhitelistConfig lists the domains links may point to and the channels
// where links are never checked.
type WhitelistConfig struct {
	Domains  []string `json:"domains"`
	Channels []string `json:"channels"`
}
