package model

// Store is the whole persisted document. It is what Load returns and Save
// writes back; day-to-day mutations go through per-entity operations instead.
type Store struct {
	Agents      map[string]Agent              `json:"agents"`
	Services    map[string][]ShiftRecord      `json:"services"`
	Absences    []AbsenceRequest              `json:"absences"`
	Infractions map[string]map[string][]int64 `json:"infractions"`
	Whitelist   WhitelistConfig               `json:"whitelist"`
	Bans        []BanRecord                   `json:"bans"`
	Settings    map[string]string             `json:"settings"`
}

// NewStore returns an empty document with every collection initialized.
func NewStore() *Store {
	return &Store{
		Agents:      make(map[string]Agent),
		Services:    make(map[string][]ShiftRecord),
		Absences:    []AbsenceRequest{},
		Infractions: make(map[string]map[string][]int64),
		Whitelist:   WhitelistConfig{Domains: []string{}, Channels: []string{}},
		Bans:        []BanRecord{},
		Settings:    make(map[string]string),
	}
}
