package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// EventTypePurchase selects the purchase branch; any other event type maps to
// a custom event.
const EventTypePurchase = "purchase"

// Console log modes.
const (
	LogTypeUnset  = ""
	LogTypeNo     = "no"
	LogTypeDebug  = "debug"
	LogTypeAlways = "always"
)

// ConsentRequired is the adStorageConsent value that turns the consent check on.
const ConsentRequired = "required"

// Pair is one ordered name/value entry of a configured list. Later pairs win
// over earlier ones with the same name.
type Pair struct {
	Name  string `yaml:"name" json:"name"`
	Value any    `yaml:"value" json:"value"`
}

// Tag is the static configuration of one Braze tag. All flags are strict
// booleans; string forms are resolved when the tag file is loaded.
type Tag struct {
	Name string

	EventType       string
	EventNameCustom string
	EventTimestamp  string

	IncludeCommonEventData bool

	PurchaseProductID     string
	PurchaseCurrency      string
	PurchasePrice         string
	PurchaseTransactionID string
	PurchaseProducts      []map[string]any

	AddUserAlias            bool
	UserAliasLabel          string
	UserAliasName           string
	UpdateExistingUsersOnly bool

	UserIdentifiers []Pair
	UserCustomData  []Pair
	EventCustomData []Pair

	APIKey      string
	APIEndpoint string
	AppID       string

	UseOptimisticScenario bool
	AdStorageConsent      string

	LogType          string
	WarehouseLogType string
}

// IsPurchase reports whether the tag sends purchases rather than custom events.
func (t Tag) IsPurchase() bool {
	return t.EventType == EventTypePurchase
}

// ConsentRequired reports whether ad-storage consent gates dispatch.
func (t Tag) ConsentRequired() bool {
	return t.AdStorageConsent == ConsentRequired
}

// Tags indexes tag definitions by name.
type Tags map[string]Tag

// FlexBool decodes either a YAML boolean or its string form. A boolean
// scalar in any of YAML's spellings (true, True, TRUE) counts, while a
// string is true only when it is exactly "true".
type FlexBool bool

func (b *FlexBool) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a boolean", node.Line)
	}
	switch node.ShortTag() {
	case "!!bool":
		var v bool
		if err := node.Decode(&v); err != nil {
			return err
		}
		*b = FlexBool(v)
	case "!!str":
		*b = FlexBool(node.Value == "true")
	default:
		*b = false
	}
	return nil
}

type tagFile struct {
	Tags map[string]rawTag `yaml:"tags"`
}

type rawTag struct {
	EventType       string `yaml:"eventType"`
	EventNameCustom string `yaml:"eventNameCustom"`
	EventTimestamp  string `yaml:"eventTimestamp"`

	IncludeCommonEventData FlexBool `yaml:"includeCommonEventData"`

	PurchaseProductID     string           `yaml:"purchaseProductId"`
	PurchaseCurrency      string           `yaml:"purchaseCurrency"`
	PurchasePrice         string           `yaml:"purchasePrice"`
	PurchaseTransactionID string           `yaml:"purchaseTransactionId"`
	PurchaseProducts      []map[string]any `yaml:"purchaseProducts"`

	AddUserAlias            FlexBool `yaml:"addUserAlias"`
	UserAliasLabel          string   `yaml:"userAliasLabel"`
	UserAliasName           string   `yaml:"userAliasName"`
	UpdateExistingUsersOnly FlexBool `yaml:"updateExistingUsersOnly"`

	UserIdentifiersList []Pair `yaml:"userIdentifiersList"`
	UserCustomDataList  []Pair `yaml:"userCustomDataList"`
	EventCustomDataList []Pair `yaml:"eventCustomDataList"`

	APIKey      string `yaml:"apiKey"`
	APIEndpoint string `yaml:"apiEndpoint"`
	AppID       string `yaml:"appId"`

	UseOptimisticScenario FlexBool `yaml:"useOptimisticScenario"`
	AdStorageConsent      string   `yaml:"adStorageConsent"`

	LogType         string `yaml:"logType"`
	BigQueryLogType string `yaml:"bigQueryLogType"`
}

// LoadTags reads tag definitions from a YAML file.
func LoadTags(path string) (Tags, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tags file: %w", err)
	}
	return ParseTags(b)
}

// ParseTags decodes and validates YAML tag definitions.
func ParseTags(b []byte) (Tags, error) {
	var f tagFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if len(f.Tags) == 0 {
		return nil, errors.New("no tags defined")
	}

	tags := make(Tags, len(f.Tags))
	for name, raw := range f.Tags {
		t, err := raw.normalize(name)
		if err != nil {
			return nil, fmt.Errorf("tag %q: %w", name, err)
		}
		tags[name] = t
	}
	return tags, nil
}

func (r rawTag) normalize(name string) (Tag, error) {
	if strings.TrimSpace(r.APIKey) == "" {
		return Tag{}, errors.New("apiKey required")
	}
	if strings.TrimSpace(r.APIEndpoint) == "" {
		return Tag{}, errors.New("apiEndpoint required")
	}

	switch r.LogType {
	case LogTypeUnset, LogTypeNo, LogTypeDebug, LogTypeAlways:
	default:
		return Tag{}, fmt.Errorf("unknown logType %q", r.LogType)
	}

	warehouseLog := r.BigQueryLogType
	if warehouseLog == "" {
		warehouseLog = LogTypeNo
	}
	if warehouseLog != LogTypeNo && warehouseLog != LogTypeAlways {
		return Tag{}, fmt.Errorf("unknown bigQueryLogType %q", r.BigQueryLogType)
	}

	return Tag{
		Name:                    name,
		EventType:               r.EventType,
		EventNameCustom:         r.EventNameCustom,
		EventTimestamp:          r.EventTimestamp,
		IncludeCommonEventData:  bool(r.IncludeCommonEventData),
		PurchaseProductID:       r.PurchaseProductID,
		PurchaseCurrency:        r.PurchaseCurrency,
		PurchasePrice:           r.PurchasePrice,
		PurchaseTransactionID:   r.PurchaseTransactionID,
		PurchaseProducts:        r.PurchaseProducts,
		AddUserAlias:            bool(r.AddUserAlias),
		UserAliasLabel:          r.UserAliasLabel,
		UserAliasName:           r.UserAliasName,
		UpdateExistingUsersOnly: bool(r.UpdateExistingUsersOnly),
		UserIdentifiers:         r.UserIdentifiersList,
		UserCustomData:          r.UserCustomDataList,
		EventCustomData:         r.EventCustomDataList,
		APIKey:                  r.APIKey,
		APIEndpoint:             strings.TrimRight(r.APIEndpoint, "/"),
		AppID:                   r.AppID,
		UseOptimisticScenario:   bool(r.UseOptimisticScenario),
		AdStorageConsent:        r.AdStorageConsent,
		LogType:                 r.LogType,
		WarehouseLogType:        warehouseLog,
	}, nil
}
