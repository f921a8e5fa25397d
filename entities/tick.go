package entities

type ProcessedTick struct {
	TickNumber uint32 `json:"tickNumber"`
	Epoch      uint32 `json:"epoch"`
}

type ProcessedTickInterval struct {
	InitialProcessedTick uint32 `json:"initialProcessedTick"`
	LastProcessedTick    uint32 `json:"lastProcessedTick"`
}

type ProcessedTickIntervalsPerEpoch struct {
	Epoch     uint32                  `json:"epoch"`
	Intervals []ProcessedTickInterval `json:"intervals"`
}

// Status is the subset of the rpc status response needed to locate the current epoch.
type Status struct {
	LastProcessedTick              ProcessedTick                    `json:"lastProcessedTick"`
	ProcessedTickIntervalsPerEpoch []ProcessedTickIntervalsPerEpoch `json:"processedTickIntervalsPerEpoch"`
}

type TickRange struct {
	StartTick uint32 `json:"startTick"`
	EndTick   uint32 `json:"endTick"`
}
