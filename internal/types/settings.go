package types

// Settings is the process-wide configuration record. JSON keys match the
// names used by previously exported projects so settings round-trip.
type Settings struct {
	PauseOnCuePopup    bool `json:"pauseOnCuePopup"`
	ShowCueNumbers     bool `json:"showCueNumbers"`
	UseFadeTimes       bool `json:"useFadeTimes"`
	UseMarkerColor     bool `json:"useMarkerColor"`
	KeepPlayheadInView bool `json:"keepPlayheadInView"`

	// Macro script identifiers. MacroID doubles as the export file id.
	MacroID              int    `json:"ma3Id"`
	MacroTrigger         string `json:"ma3Trigger"`
	MacroOverrideEnabled bool   `json:"ma3OverrideEnabled"`
	MacroOverrideID      int    `json:"ma3OverrideId"`
	MacroUseSeparateIDs  bool   `json:"ma3UseSeparateIds"`
	MacroSeqID           int    `json:"ma3SeqId"`
	MacroTcID            int    `json:"ma3TcId"`
	MacroPageID          int    `json:"ma3PageId"`
}

// DefaultSettings returns the factory settings
func DefaultSettings() Settings {
	return Settings{
		PauseOnCuePopup:    true,
		ShowCueNumbers:     true,
		UseFadeTimes:       true,
		UseMarkerColor:     true,
		KeepPlayheadInView: true,
		MacroID:            DefaultMacroID,
		MacroTrigger:       DefaultTrigger,
		MacroOverrideID:    DefaultMacroID,
		MacroSeqID:         DefaultMacroID,
		MacroTcID:          DefaultMacroID,
		MacroPageID:        DefaultMacroID,
	}
}

// ExportID is the positive id used as the prefix of every exported file
func (s Settings) ExportID() int {
	if s.MacroID < 1 {
		return DefaultMacroID
	}
	return s.MacroID
}

// Trigger returns the timecode event token, falling back to the default
func (s Settings) Trigger() string {
	if s.MacroTrigger == "" {
		return DefaultTrigger
	}
	return s.MacroTrigger
}

// MacroIDs holds the three independently resolved macro script identifiers
type MacroIDs struct {
	Sequence int
	Timecode int
	Page     int
}

// ResolveMacroIDs applies the override rules: without override all three
// ids equal the export id; with override but no separate ids all three equal
// the override id; with separate ids each uses its own value, falling back to
// the override id and then the export id.
func (s Settings) ResolveMacroIDs() MacroIDs {
	base := s.ExportID()
	if !s.MacroOverrideEnabled {
		return MacroIDs{Sequence: base, Timecode: base, Page: base}
	}
	override := s.MacroOverrideID
	if override < 1 {
		override = base
	}
	if !s.MacroUseSeparateIDs {
		return MacroIDs{Sequence: override, Timecode: override, Page: override}
	}
	pick := func(id int) int {
		if id < 1 {
			return override
		}
		return id
	}
	return MacroIDs{
		Sequence: pick(s.MacroSeqID),
		Timecode: pick(s.MacroTcID),
		Page:     pick(s.MacroPageID),
	}
}
