// Package tenant loads and compiles per-tenant responder configuration.
// Both sites run the same engine; everything business-specific (contact
// number, site paths, intent table, phrase pools, widget chips) lives in
// a YAML file, so owners can tune wording and weights without touching
// logic.
package tenant

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/mmopane/sitechat/internal/bot"
	"gopkg.in/yaml.v3"
)

// Config is the full per-tenant configuration as declared in YAML.
type Config struct {
	Name     string            `yaml:"name"`
	WhatsApp string            `yaml:"whatsapp"`
	Paths    map[string]string `yaml:"paths"`
	Socials  map[string]string `yaml:"socials"`

	Greeting Greeting     `yaml:"greeting"`
	Intents  []IntentSpec `yaml:"intents"`
	Fallback Fallback     `yaml:"fallback"`
	Nudge    Nudge        `yaml:"nudge"`
	Widget   Widget       `yaml:"widget"`
}

// Greeting is the greeting+menu reply used for empty input; the same
// phrase pool normally backs the greeting intent via a YAML anchor.
type Greeting struct {
	Phrases []string `yaml:"phrases"`
	Prompt  string   `yaml:"prompt"`
	Chips   []string `yaml:"chips"`
}

// IntentSpec declares one intent row of the catalog. Matchers are a
// tagged union: regex patterns and literal substrings are separate lists.
type IntentSpec struct {
	Name     string   `yaml:"name"`
	Weight   int      `yaml:"weight"`
	Patterns []string `yaml:"patterns"`
	Literals []string `yaml:"literals"`
	Phrases  []string `yaml:"phrases"`
	Epilogue string   `yaml:"epilogue"`
	Chips    []string `yaml:"chips"`
	Greets   bool     `yaml:"greets"`
}

// Fallback is the server-side safety-net reply pool. It rotates
// round-robin, unlike the per-intent random pick.
type Fallback struct {
	Phrases []string `yaml:"phrases"`
	Chips   []string `yaml:"chips"`
}

// Nudge handles the "mentions chatting but matched nothing" edge case.
type Nudge struct {
	Literals []string `yaml:"literals"`
	Reply    string   `yaml:"reply"`
	Chips    []string `yaml:"chips"`
}

// Widget is the configuration consumed by the chat widget contract:
// reserved chip labels, navigation routes, lead form fields, and the
// client-side fallback pool used when the classify round trip fails.
type Widget struct {
	Intro          string            `yaml:"intro"`
	HandoffIntro   string            `yaml:"handoff_intro"`
	HandoffMessage string            `yaml:"handoff_message"`
	LeadChip       string            `yaml:"lead_chip"`
	LeadPrompt     string            `yaml:"lead_prompt"`
	HandoffChips   []string          `yaml:"handoff_chips"`
	Routes         map[string]string `yaml:"routes"`
	LeadFields     []string          `yaml:"lead_fields"`
	DefaultChips   []string          `yaml:"default_chips"`
	Fallbacks      []string          `yaml:"fallbacks"`
}

// Load reads and validates a tenant config from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tenant config: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse tenant config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tenant config: %w", err)
	}
	if err := cfg.expandWidget(); err != nil {
		return nil, fmt.Errorf("invalid tenant config: %w", err)
	}
	return &cfg, nil
}

// expandWidget interpolates business tokens into the widget strings once,
// right after parsing, so the widget contract sees final text.
func (c *Config) expandWidget() error {
	interp := c.replacer()
	fields := []*string{
		&c.Widget.Intro,
		&c.Widget.HandoffIntro,
		&c.Widget.HandoffMessage,
		&c.Widget.LeadPrompt,
	}
	for _, f := range fields {
		*f = interp.Replace(*f)
		if strings.Contains(*f, "{{") {
			return fmt.Errorf("widget: unknown token in %q", *f)
		}
	}
	for i, s := range c.Widget.Fallbacks {
		c.Widget.Fallbacks[i] = interp.Replace(s)
		if strings.Contains(c.Widget.Fallbacks[i], "{{") {
			return fmt.Errorf("widget: unknown token in %q", s)
		}
	}
	return nil
}

// Validate checks the structural invariants the engine depends on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(c.WhatsApp) == "" {
		return fmt.Errorf("whatsapp number is required")
	}
	if len(c.Greeting.Phrases) == 0 {
		return fmt.Errorf("greeting.phrases must not be empty")
	}
	if len(c.Fallback.Phrases) == 0 {
		return fmt.Errorf("fallback.phrases must not be empty")
	}
	if len(c.Intents) == 0 {
		return fmt.Errorf("at least one intent is required")
	}
	for _, in := range c.Intents {
		if in.Weight <= 0 {
			return fmt.Errorf("intent %q: weight must be positive", in.Name)
		}
		if len(in.Patterns)+len(in.Literals) == 0 {
			return fmt.Errorf("intent %q: needs at least one pattern or literal", in.Name)
		}
		if len(in.Phrases) == 0 {
			return fmt.Errorf("intent %q: needs at least one phrase", in.Name)
		}
	}
	return nil
}

// Engine compiles the config into a ready bot engine: regexes compiled,
// business tokens interpolated into every phrase, catalog order preserved
// as declared (first-declared wins score ties).
func (c *Config) Engine(memoryTTL time.Duration) (*bot.Engine, error) {
	interp := c.replacer()

	expand := func(where string, ss []string) ([]string, error) {
		out := make([]string, len(ss))
		for i, s := range ss {
			v := interp.Replace(s)
			if strings.Contains(v, "{{") {
				return nil, fmt.Errorf("%s: unknown token in %q", where, s)
			}
			out[i] = v
		}
		return out, nil
	}
	expandOne := func(where, s string) (string, error) {
		out, err := expand(where, []string{s})
		if err != nil {
			return "", err
		}
		return out[0], nil
	}

	intents := make([]bot.Intent, 0, len(c.Intents))
	for _, spec := range c.Intents {
		matchers := make([]bot.Matcher, 0, len(spec.Patterns)+len(spec.Literals))
		for _, p := range spec.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("intent %q: bad pattern %q: %w", spec.Name, p, err)
			}
			matchers = append(matchers, bot.Pattern(re))
		}
		for _, l := range spec.Literals {
			matchers = append(matchers, bot.Literal(l))
		}

		phrases, err := expand("intent "+spec.Name, spec.Phrases)
		if err != nil {
			return nil, err
		}
		epilogue, err := expandOne("intent "+spec.Name, spec.Epilogue)
		if err != nil {
			return nil, err
		}

		intents = append(intents, bot.Intent{
			Name:     spec.Name,
			Weight:   spec.Weight,
			Matchers: matchers,
			Greets:   spec.Greets,
			Respond: bot.NewResponder(bot.ResponseSpec{
				Phrases:     phrases,
				Epilogue:    epilogue,
				Suggestions: spec.Chips,
			}),
		})
	}

	greetings, err := expand("greeting", c.Greeting.Phrases)
	if err != nil {
		return nil, err
	}
	fallbacks, err := expand("fallback", c.Fallback.Phrases)
	if err != nil {
		return nil, err
	}
	nudge, err := expandOne("nudge", c.Nudge.Reply)
	if err != nil {
		return nil, err
	}

	return bot.NewEngine(intents, bot.EngineConfig{
		Greetings:      greetings,
		GreetingPrompt: c.Greeting.Prompt,
		GreetingChips:  c.Greeting.Chips,
		Fallbacks:      fallbacks,
		FallbackChips:  c.Fallback.Chips,
		NudgeLiterals:  c.Nudge.Literals,
		NudgeReply:     nudge,
		NudgeChips:     c.Nudge.Chips,
		MemoryTTL:      memoryTTL,
	})
}

// replacer builds the token interpolator for this tenant's business data.
// Tokens look like {{whatsapp}}, {{paths.gallery}}, {{socials.instagram}}.
func (c *Config) replacer() *strings.Replacer {
	pairs := []string{
		"{{name}}", c.Name,
		"{{whatsapp}}", c.WhatsApp,
	}
	for _, k := range sortedKeys(c.Paths) {
		pairs = append(pairs, "{{paths."+k+"}}", c.Paths[k])
	}
	for _, k := range sortedKeys(c.Socials) {
		pairs = append(pairs, "{{socials."+k+"}}", c.Socials[k])
	}
	return strings.NewReplacer(pairs...)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
