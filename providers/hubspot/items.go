package hubspot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Seann-Moser/integrations/integration"
)

const defaultListTimeout = 30 * time.Second

// objectTypes are listed in this order; the combined result keeps it.
var objectTypes = []struct {
	path     string
	itemType integration.ItemType
}{
	{"contacts", integration.ItemTypeContact},
	{"companies", integration.ItemTypeCompany},
	{"deals", integration.ItemTypeDeal},
}

// Loader lists CRM objects and normalizes them into integration items. Only
// the first page of each object type is read.
type Loader struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func NewLoader(baseURL string, httpClient *http.Client, logger *slog.Logger) *Loader {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultListTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		baseURL: baseURL,
		http:    httpClient,
		logger:  logger.With("provider", Name),
	}
}

// Items requests contacts, companies and deals one after another. An object
// type whose listing does not return 200 contributes no items.
func (l *Loader) Items(ctx context.Context, credentials []byte) ([]integration.Item, error) {
	var bundle struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(credentials, &bundle); err != nil {
		return nil, fmt.Errorf("hubspot: decode credentials: %w", err)
	}

	items := []integration.Item{}
	for _, ot := range objectTypes {
		records, err := l.list(ctx, bundle.AccessToken, ot.path)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			items = append(items, Normalize(rec, ot.itemType))
		}
	}
	l.logger.DebugContext(ctx, "loaded hubspot items", "count", len(items))
	return items, nil
}

func (l *Loader) list(ctx context.Context, accessToken, object string) ([]map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/crm/v3/objects/"+object, nil)
	if err != nil {
		return nil, fmt.Errorf("hubspot: build %s request: %w", object, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hubspot: list %s: %w", object, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		// TODO: confirm with product whether a failed listing should be surfaced to the caller instead of skipped.
		l.logger.WarnContext(ctx, "skipping object type", "object", object, "status", resp.StatusCode)
		return nil, nil
	}

	var page struct {
		Results []map[string]any `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("hubspot: decode %s: %w", object, err)
	}
	return page.Results, nil
}

// Normalize maps a CRM object record into an integration.Item. The name is the
// record's top-level "name" when present, otherwise firstname and lastname
// from its properties joined by a single space, even when both are empty.
func Normalize(record map[string]any, itemType integration.ItemType) integration.Item {
	var name string
	if v, ok := record["name"]; ok {
		name = str(v)
	} else {
		props, _ := record["properties"].(map[string]any)
		name = str(props["firstname"]) + " " + str(props["lastname"])
	}
	return integration.Item{
		ID:               str(record["id"]),
		Type:             itemType,
		Name:             name,
		CreationTime:     integration.ParseTime(str(record["createdAt"])),
		LastModifiedTime: integration.ParseTime(str(record["updatedAt"])),
		URL:              str(record["url"]),
	}
}

func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
