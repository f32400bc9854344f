package servicetags

import (
	"fmt"
	"strings"

	"github.com/valyala/fastjson"

	"github.com/autoshield/autoshield/pkg/domain/iprange"
	"github.com/autoshield/autoshield/pkg/domain/snapshot"
)

// Feed is the flattened form of one Service Tags discovery document:
// one row per IPv4 prefix per tag. Region stays empty for global tags.
type Feed struct {
	Cloud        string
	ChangeNumber int64
	Rows         []snapshot.StagedRange
	SkippedIPv6  int
}

// Parse flattens the discovery JSON. The document is tens of megabytes,
// hence fastjson instead of encoding/json. IPv6 prefixes are skipped;
// a malformed IPv4 prefix fails the whole feed so a bad document never
// reaches the staging table.
func Parse(data []byte) (*Feed, error) {
	var p fastjson.Parser
	doc, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service tags payload: %w", err)
	}

	values := doc.GetArray("values")
	if values == nil {
		return nil, fmt.Errorf("service tags payload has no values array")
	}

	feed := &Feed{
		Cloud:        string(doc.GetStringBytes("cloud")),
		ChangeNumber: doc.GetInt64("changeNumber"),
		Rows:         make([]snapshot.StagedRange, 0, len(values)*8),
	}
	seen := make(map[iprange.Key]bool)

	for _, value := range values {
		component := string(value.GetStringBytes("name"))
		if component == "" {
			return nil, fmt.Errorf("service tag without a name")
		}
		region := string(value.GetStringBytes("properties", "region"))

		for _, prefixValue := range value.GetArray("properties", "addressPrefixes") {
			address := string(prefixValue.GetStringBytes())
			if strings.Contains(address, ":") {
				feed.SkippedIPv6++
				continue
			}

			start, end, err := iprange.Bounds(address)
			if err != nil {
				return nil, fmt.Errorf("service tag %s: %w", component, err)
			}

			key := iprange.Key{Component: component, Region: region, Address: address}
			if seen[key] {
				continue
			}
			seen[key] = true

			feed.Rows = append(feed.Rows, snapshot.StagedRange{
				Component: component,
				Region:    region,
				Address:   address,
				StartIP:   start.String(),
				EndIP:     end.String(),
			})
		}
	}

	return feed, nil
}
