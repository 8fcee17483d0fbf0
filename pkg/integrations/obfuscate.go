package integrations

// MaskToken replaces every secret credential field on read. Fixed
// length, irreversible.
const MaskToken = "********"

// Obfuscated returns a copy of cfg with secret-tagged credential
// fields replaced by MaskToken. Field names are preserved so clients
// can render the same form for raw and obfuscated views. Empty fields
// stay empty so the UI can tell "unset" from "hidden".
func Obfuscated(cat *Catalog, cfg *Config) *Config {
	if cfg == nil {
		return nil
	}
	out := *cfg
	out.Credentials = make(map[string]string, len(cfg.Credentials))
	for k, v := range cfg.Credentials {
		if v != "" && cat.IsSecret(cfg.Kind, k) {
			out.Credentials[k] = MaskToken
			continue
		}
		out.Credentials[k] = v
	}
	return &out
}
