package cardmeta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionName is the Mongo collection holding cached card metadata.
const CollectionName = "card_info"

// ErrNotFound means neither an exact nor a fuzzy lookup knew the card.
var ErrNotFound = errors.New("card not found")

// CardInfo is the metadata the table UI needs for a card name. Lookups are
// idempotent, so entries are cached forever keyed by
// (card_name, set_code, collector_number).
type CardInfo struct {
	CardName        string    `bson:"card_name" json:"card_name"`
	SetCode         string    `bson:"set_code" json:"set_code,omitempty"`
	CollectorNumber string    `bson:"collector_number" json:"collector_number,omitempty"`
	SmallImageURL   string    `bson:"small_image_url" json:"small_image_url"`
	NormalImageURL  string    `bson:"normal_image_url" json:"normal_image_url"`
	TypeLine        string    `bson:"type_line" json:"type_line"`
	FetchedAt       time.Time `bson:"fetched_at" json:"-"`
}

type Service struct {
	col     *mongo.Collection
	client  *http.Client
	baseURL string
}

func NewService(db *mongo.Database) *Service {
	baseURL := os.Getenv("SCRYFALL_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.scryfall.com"
	}

	return &Service{
		col:     db.Collection(CollectionName),
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
	}
}

// namedResponse is the slice of the card API response we care about. Double
// faced cards carry their images on the first face instead of the top level.
type namedResponse struct {
	TypeLine  string `json:"type_line"`
	ImageUris *struct {
		Small  string `json:"small"`
		Normal string `json:"normal"`
	} `json:"image_uris"`
	CardFaces []struct {
		TypeLine  string `json:"type_line"`
		ImageUris *struct {
			Small  string `json:"small"`
			Normal string `json:"normal"`
		} `json:"image_uris"`
	} `json:"card_faces"`
}

// Lookup resolves a card name to its images and type line, trying the
// cache, then an exact named lookup, then a fuzzy one.
func (s *Service) Lookup(ctx context.Context, name, setCode, collectorNumber string) (*CardInfo, error) {
	key := bson.M{"card_name": name, "set_code": setCode, "collector_number": collectorNumber}

	cached := &CardInfo{}
	err := s.col.FindOne(ctx, key).Decode(cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to read card cache: %w", err)
	}

	resp, err := s.fetchNamed(ctx, "exact", name)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		if resp, err = s.fetchNamed(ctx, "fuzzy", name); err != nil {
			return nil, err
		}
	}
	if resp == nil {
		return nil, ErrNotFound
	}

	info := &CardInfo{
		CardName:        name,
		SetCode:         setCode,
		CollectorNumber: collectorNumber,
		TypeLine:        resp.TypeLine,
		FetchedAt:       time.Now().UTC(),
	}

	uris := resp.ImageUris
	if uris == nil && len(resp.CardFaces) > 0 {
		uris = resp.CardFaces[0].ImageUris
		if info.TypeLine == "" {
			info.TypeLine = resp.CardFaces[0].TypeLine
		}
	}
	if uris == nil || uris.Small == "" || uris.Normal == "" {
		return nil, ErrNotFound
	}
	info.SmallImageURL = uris.Small
	info.NormalImageURL = uris.Normal

	// Cache failures are not lookup failures.
	if _, err := s.col.InsertOne(ctx, info); err != nil && !mongo.IsDuplicateKeyError(err) {
		log.Errorf("Error caching card info for %q: %s", name, err)
	}

	return info, nil
}

func (s *Service) fetchNamed(ctx context.Context, mode, name string) (*namedResponse, error) {
	u := fmt.Sprintf("%s/cards/named?%s=%s", s.baseURL, mode, url.QueryEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("card lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("card lookup returned status %d", resp.StatusCode)
	}

	parsed := &namedResponse{}
	if err := json.NewDecoder(resp.Body).Decode(parsed); err != nil {
		return nil, fmt.Errorf("failed to decode card lookup response: %w", err)
	}

	return parsed, nil
}
