// Package search mirrors loads into Elasticsearch for free-text lookup.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/baltotest/freight-api/internal/application"
	"github.com/baltotest/freight-api/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

type LoadIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewLoadIndex(es *elasticsearch.Client, index string) *LoadIndex {
	return &LoadIndex{es: es, index: index}
}

type loadDoc struct {
	ID                 string  `json:"id"`
	OriginAddress      string  `json:"origin_address"`
	DestinationAddress string  `json:"destination_address"`
	Status             string  `json:"status"`
	BrokerID           string  `json:"broker_id"`
	CustomerID         string  `json:"customer_id"`
	CarrierID          *string `json:"carrier_id,omitempty"`
	VehicleDetails     string  `json:"vehicle_details"`
	Notes              string  `json:"notes"`
	PickupDate         string  `json:"pickup_date"`
	DeliveryDate       string  `json:"delivery_date"`
	UpdatedAt          string  `json:"updated_at"`
}

func toDoc(l *entity.Load) loadDoc {
	return loadDoc{
		ID:                 l.ID,
		OriginAddress:      l.OriginAddress,
		DestinationAddress: l.DestinationAddress,
		Status:             string(l.Status),
		BrokerID:           l.BrokerID,
		CustomerID:         l.CustomerID,
		CarrierID:          l.CarrierID,
		VehicleDetails:     l.VehicleDetails,
		Notes:              l.Notes,
		PickupDate:         l.PickupDate.UTC().Format(time.RFC3339),
		DeliveryDate:       l.DeliveryDate.UTC().Format(time.RFC3339),
		UpdatedAt:          l.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (x *LoadIndex) Index(ctx context.Context, l *entity.Load) error {
	b, err := json.Marshal(toDoc(l))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.index, DocumentID: l.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", l.ID, res.Status())
	}
	return nil
}

// Remove treats an already-missing document as removed.
func (x *LoadIndex) Remove(ctx context.Context, loadID string) error {
	req := esapi.DeleteRequest{Index: x.index, DocumentID: loadID}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete %s: %s", loadID, res.Status())
	}
	return nil
}

func searchQuery(q string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"origin_address^2", "destination_address^2", "vehicle_details", "notes", "status"},
			},
		},
		"size":    size,
		"_source": false,
	}
}

func (x *LoadIndex) Search(ctx context.Context, q string, size int) ([]string, error) {
	b, err := json.Marshal(searchQuery(q, size))
	if err != nil {
		return nil, err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Search(x.es.Search.WithContext(c), x.es.Search.WithIndex(x.index), x.es.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		// index not created yet
		if res.StatusCode == http.StatusNotFound {
			return []string{}, nil
		}
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.ID)
	}
	return out, nil
}

var _ application.LoadIndexer = (*LoadIndex)(nil)
