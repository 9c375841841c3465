package resto

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Kind string

const (
	KindStores      Kind = "stores"
	KindAccounts    Kind = "accounts"
	KindConceptions Kind = "conceptions"
	KindProducts    Kind = "products"
)

// Dictionary maps an entity id to its display name. Several ids may share one name.
type Dictionary map[string]string

// Lookup resolves id, matching UUIDs regardless of case.
func (d Dictionary) Lookup(id string) (string, bool) {
	if d == nil {
		return "", false
	}
	name, ok := d[normalizeID(id)]
	return name, ok
}

func (d Dictionary) set(id, name string) {
	d[normalizeID(id)] = name
}

func normalizeID(id string) string {
	id = strings.TrimSpace(id)
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed.String()
	}
	return id
}

type Dictionaries struct {
	Stores      Dictionary
	Accounts    Dictionary
	Conceptions Dictionary
	Products    Dictionary
}

func EmptyDictionaries() Dictionaries {
	return Dictionaries{
		Stores:      Dictionary{},
		Accounts:    Dictionary{},
		Conceptions: Dictionary{},
		Products:    Dictionary{},
	}
}

func (d Dictionaries) byKind(kind Kind) Dictionary {
	switch kind {
	case KindStores:
		return d.Stores
	case KindAccounts:
		return d.Accounts
	case KindConceptions:
		return d.Conceptions
	case KindProducts:
		return d.Products
	default:
		return nil
	}
}

// Missing lists the kinds that loaded no entries.
func (d Dictionaries) Missing() []Kind {
	var missing []Kind
	for _, kind := range []Kind{KindStores, KindAccounts, KindConceptions, KindProducts} {
		if len(d.byKind(kind)) == 0 {
			missing = append(missing, kind)
		}
	}
	return missing
}

// extractor picks the entity list out of a decoded response body.
type extractor func(body any) ([]any, bool)

type dictionarySource struct {
	kind       Kind
	endpoints  []string
	extractors []extractor
	idFields   []string
	nameFields []string
}

var dictionarySources = []dictionarySource{
	{
		kind: KindStores,
		endpoints: []string{
			"/api/corporation/stores",
			"/api/departments",
			"/api/v2/entities/departments/list",
			"/api/corporation/departments",
		},
		extractors: []extractor{
			asArray,
			nestedArray("corporateItemDtos", fieldEquals("type", "STORE")),
			nestedArray("departments", nil),
			firstArrayField,
		},
		idFields:   []string{"id", "uuid", "departmentId", "storeId"},
		nameFields: []string{"name", "itemName", "departmentName", "storeName"},
	},
	{
		kind: KindAccounts,
		endpoints: []string{
			"/api/v2/payments/paymentTypes",
			"/api/accounts",
			"/api/v2/entities/accounts/list",
		},
		extractors: []extractor{
			asArray,
			nestedArray("accounts", nil),
			nestedArray("paymentTypes", nil),
			firstArrayField,
		},
		idFields:   []string{"id", "uuid", "accountId"},
		nameFields: []string{"name", "paymentTypeName", "accountName"},
	},
	{
		kind: KindConceptions,
		endpoints: []string{
			"/api/corporation/conceptions",
			"/api/conceptions",
		},
		extractors: []extractor{
			asArray,
			nestedArray("conceptions", nil),
			firstArrayField,
		},
		idFields:   []string{"id", "uuid"},
		nameFields: []string{"name", "conceptionName"},
	},
	{
		kind: KindProducts,
		endpoints: []string{
			"/api/products",
			"/api/v2/entities/products/list",
			"/api/nomenclature",
		},
		extractors: []extractor{
			asArray,
			nestedArray("products", nil),
			nestedArray("nomenclature", nil),
			firstArrayField,
		},
		idFields:   []string{"id", "uuid", "productId"},
		nameFields: []string{"name", "itemName", "fullName", "productName"},
	},
}

// LoadDictionaries probes the candidate endpoints of every dictionary kind in order.
// It never fails: a kind with no usable endpoint yields an empty dictionary.
func (c *Client) LoadDictionaries(ctx context.Context, session Session) Dictionaries {
	dicts := EmptyDictionaries()
	c.logger.Info("loading dictionaries")

	for _, source := range dictionarySources {
		loaded := c.loadDictionary(ctx, session, source)
		switch source.kind {
		case KindStores:
			dicts.Stores = loaded
		case KindAccounts:
			dicts.Accounts = loaded
		case KindConceptions:
			dicts.Conceptions = loaded
		case KindProducts:
			dicts.Products = loaded
		}
	}

	if missing := dicts.Missing(); len(missing) > 0 {
		c.logger.Warn("partial dictionary load", zap.Any("empty_kinds", missing))
	}
	return dicts
}

func (c *Client) loadDictionary(ctx context.Context, session Session, source dictionarySource) Dictionary {
	logger := c.logger.With(zap.String("kind", string(source.kind)))

	for _, endpoint := range source.endpoints {
		if err := ctx.Err(); err != nil {
			logger.Warn("dictionary load interrupted", zap.Error(err))
			break
		}

		logger.Debug("probing endpoint", zap.String("endpoint", endpoint))
		dict, err := c.probeDictionary(ctx, session, endpoint, source)
		if err != nil {
			logger.Warn("endpoint failed", zap.String("endpoint", endpoint), zap.Error(err))
			continue
		}
		if len(dict) == 0 {
			logger.Debug("endpoint returned no usable entries", zap.String("endpoint", endpoint))
			continue
		}

		logger.Info("dictionary loaded", zap.String("endpoint", endpoint), zap.Int("entries", len(dict)))
		return dict
	}

	logger.Warn("dictionary is empty: no endpoint returned usable data")
	return Dictionary{}
}

func (c *Client) probeDictionary(ctx context.Context, session Session, endpoint string, source dictionarySource) (Dictionary, error) {
	resp, err := c.doGet(ctx, c.timeouts.Dictionary, session.url(endpoint), session.query(nil))
	if err != nil {
		return nil, err
	}

	var body any
	if err := decodeBody(resp.Body(), &body); err != nil {
		return nil, err
	}

	return source.collect(extractEntities(body, source.extractors)), nil
}

func extractEntities(body any, extractors []extractor) []any {
	for _, extract := range extractors {
		if items, ok := extract(body); ok {
			return items
		}
	}
	return nil
}

func (s dictionarySource) collect(items []any) Dictionary {
	dict := Dictionary{}
	for _, item := range items {
		entity, ok := item.(map[string]any)
		if !ok {
			continue
		}

		name := firstText(entity, s.nameFields)
		if name == "" {
			continue
		}
		for _, field := range s.idFields {
			if id := strings.TrimSpace(textValue(entity[field])); id != "" {
				dict.set(id, name)
			}
		}
	}
	return dict
}

func firstText(entity map[string]any, fields []string) string {
	for _, field := range fields {
		if value := strings.TrimSpace(textValue(entity[field])); value != "" {
			return value
		}
	}
	return ""
}

func asArray(body any) ([]any, bool) {
	items, ok := body.([]any)
	return items, ok
}

func nestedArray(field string, keep func(map[string]any) bool) extractor {
	return func(body any) ([]any, bool) {
		obj, ok := body.(map[string]any)
		if !ok {
			return nil, false
		}
		items, ok := obj[field].([]any)
		if !ok {
			return nil, false
		}
		if keep == nil {
			return items, true
		}

		filtered := make([]any, 0, len(items))
		for _, item := range items {
			if entity, ok := item.(map[string]any); ok && keep(entity) {
				filtered = append(filtered, item)
			}
		}
		return filtered, true
	}
}

func fieldEquals(field, value string) func(map[string]any) bool {
	return func(entity map[string]any) bool {
		return textValue(entity[field]) == value
	}
}

// firstArrayField scans object fields in key order for the first non-empty array.
func firstArrayField(body any) ([]any, bool) {
	obj, ok := body.(map[string]any)
	if !ok {
		return nil, false
	}

	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if items, ok := obj[key].([]any); ok && len(items) > 0 {
			return items, true
		}
	}
	return nil, false
}
