package sources

import "errors"

// ErrUnknownSource is returned for table names outside the registry
var ErrUnknownSource = errors.New("unknown settings source")

var registry = []Mapper{
	{Name: CurrencySettings, Inbound: currencyInbound, Outbound: currencyOutbound},
	{Name: DailyCollectSettings, Inbound: dailyInbound, Outbound: dailyOutbound},
	{Name: WorkCommandSettings, Inbound: workInbound, Outbound: workOutbound},
	{Name: MarketplaceSettings, Inbound: marketplaceInbound, Outbound: marketplaceOutbound},
	{Name: AuctionSettings, Inbound: auctionInbound, Outbound: auctionOutbound},
	{Name: TradesGiftsSettings, Inbound: tradesInbound, Outbound: tradesOutbound},
	{Name: ItemSettings, Inbound: itemInbound, Outbound: itemOutbound},
	{Name: RaffleSettings, Inbound: raffleInbound, Outbound: raffleOutbound},
}

// Mappers returns every mapper in merge order. Later mappers win when two
// patches set the same field.
func Mappers() []Mapper {
	out := make([]Mapper, len(registry))
	copy(out, registry)
	return out
}

// Names returns the remote table names in merge order
func Names() []string {
	names := make([]string, len(registry))
	for i, mapper := range registry {
		names[i] = mapper.Name
	}
	return names
}

// Lookup finds a mapper by table name
func Lookup(name string) (Mapper, bool) {
	for _, mapper := range registry {
		if mapper.Name == name {
			return mapper, true
		}
	}
	return Mapper{}, false
}
