package types

import (
	"strconv"

	abci "github.com/cometbft/cometbft/abci/types"
)

const (
	EventCampaignCreatedType    = "campaign_created"
	EventContributionType       = "contribution"
	EventTokenContributionType  = "token_contribution"
	EventMilestoneCompletedType = "milestone_completed"
	EventCampaignCancelledType  = "campaign_cancelled"
	EventRefundType             = "refund"
	EventPoolCreatedType        = "pool_created"
	EventFundsAddedType         = "funds_added"
	EventFundsRemovedType       = "funds_removed"
	EventFundsDistributedType   = "funds_distributed"
)

type EventCampaignCreated struct {
	Campaign       uint64 `json:"campaign"`
	Creator        uint64 `json:"creatorIndex"`
	CreatorAddress string `json:"creatorAddress"`
	Title          string `json:"title"`
	GoalAmount     uint64 `json:"goalAmount"`
	Deadline       int64  `json:"deadline"`
}

func EncodeEventCampaignCreated(event *EventCampaignCreated) abci.Event {
	return abci.Event{
		Type: EventCampaignCreatedType,
		Attributes: []abci.EventAttribute{
			{Key: "campaign", Value: strconv.FormatUint(event.Campaign, 10), Index: true},
			{Key: "creator", Value: strconv.FormatUint(event.Creator, 10), Index: true},
			{Key: "creatorAddress", Value: event.CreatorAddress, Index: false},
			{Key: "title", Value: event.Title, Index: false},
			{Key: "goalAmount", Value: strconv.FormatUint(event.GoalAmount, 10), Index: false},
			{Key: "deadline", Value: strconv.FormatInt(event.Deadline, 10), Index: false},
		},
	}
}

func DecodeEventCampaignCreated(originEvent abci.Event) *EventCampaignCreated {
	event := &EventCampaignCreated{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "campaign":
			campaign, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Campaign = campaign
		case "creator":
			creator, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Creator = creator
		case "creatorAddress":
			event.CreatorAddress = v.Value
		case "title":
			event.Title = v.Value
		case "goalAmount":
			goal, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.GoalAmount = goal
		case "deadline":
			deadline, err := strconv.ParseInt(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Deadline = deadline
		}
	}
	return event
}

type EventContribution struct {
	Campaign           uint64 `json:"campaign"`
	Contributor        uint64 `json:"contributorIndex"`
	ContributorAddress string `json:"contributorAddress"`
	Amount             uint64 `json:"amount"`
	// Asset is empty for native contributions.
	Asset  string `json:"asset"`
	Raised uint64 `json:"raised"`
}

func encodeContribution(eventType string, event *EventContribution) abci.Event {
	return abci.Event{
		Type: eventType,
		Attributes: []abci.EventAttribute{
			{Key: "campaign", Value: strconv.FormatUint(event.Campaign, 10), Index: true},
			{Key: "contributor", Value: strconv.FormatUint(event.Contributor, 10), Index: true},
			{Key: "contributorAddress", Value: event.ContributorAddress, Index: false},
			{Key: "amount", Value: strconv.FormatUint(event.Amount, 10), Index: false},
			{Key: "asset", Value: event.Asset, Index: false},
			{Key: "raised", Value: strconv.FormatUint(event.Raised, 10), Index: false},
		},
	}
}

func EncodeEventContribution(event *EventContribution) abci.Event {
	return encodeContribution(EventContributionType, event)
}

func EncodeEventTokenContribution(event *EventContribution) abci.Event {
	return encodeContribution(EventTokenContributionType, event)
}

func DecodeEventContribution(originEvent abci.Event) *EventContribution {
	event := &EventContribution{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "campaign":
			campaign, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Campaign = campaign
		case "contributor":
			contributor, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Contributor = contributor
		case "contributorAddress":
			event.ContributorAddress = v.Value
		case "amount":
			amount, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Amount = amount
		case "asset":
			event.Asset = v.Value
		case "raised":
			raised, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Raised = raised
		}
	}
	return event
}

type EventMilestoneCompleted struct {
	Campaign  uint64 `json:"campaign"`
	Milestone uint64 `json:"milestone"`
	Released  uint64 `json:"released"`
	Fee       uint64 `json:"fee"`
	Votes     uint64 `json:"votes"`
}

func EncodeEventMilestoneCompleted(event *EventMilestoneCompleted) abci.Event {
	return abci.Event{
		Type: EventMilestoneCompletedType,
		Attributes: []abci.EventAttribute{
			{Key: "campaign", Value: strconv.FormatUint(event.Campaign, 10), Index: true},
			{Key: "milestone", Value: strconv.FormatUint(event.Milestone, 10), Index: true},
			{Key: "released", Value: strconv.FormatUint(event.Released, 10), Index: false},
			{Key: "fee", Value: strconv.FormatUint(event.Fee, 10), Index: false},
			{Key: "votes", Value: strconv.FormatUint(event.Votes, 10), Index: false},
		},
	}
}

func DecodeEventMilestoneCompleted(originEvent abci.Event) *EventMilestoneCompleted {
	event := &EventMilestoneCompleted{}
	for _, v := range originEvent.Attributes {
		val, err := strconv.ParseUint(v.Value, 10, 64)
		if err != nil {
			return nil
		}
		switch v.Key {
		case "campaign":
			event.Campaign = val
		case "milestone":
			event.Milestone = val
		case "released":
			event.Released = val
		case "fee":
			event.Fee = val
		case "votes":
			event.Votes = val
		}
	}
	return event
}

type EventCampaignCancelled struct {
	Campaign uint64 `json:"campaign"`
	By       uint64 `json:"byIndex"`
}

func EncodeEventCampaignCancelled(event *EventCampaignCancelled) abci.Event {
	return abci.Event{
		Type: EventCampaignCancelledType,
		Attributes: []abci.EventAttribute{
			{Key: "campaign", Value: strconv.FormatUint(event.Campaign, 10), Index: true},
			{Key: "by", Value: strconv.FormatUint(event.By, 10), Index: false},
		},
	}
}

func DecodeEventCampaignCancelled(originEvent abci.Event) *EventCampaignCancelled {
	event := &EventCampaignCancelled{}
	for _, v := range originEvent.Attributes {
		val, err := strconv.ParseUint(v.Value, 10, 64)
		if err != nil {
			return nil
		}
		switch v.Key {
		case "campaign":
			event.Campaign = val
		case "by":
			event.By = val
		}
	}
	return event
}

type EventRefund struct {
	Campaign           uint64 `json:"campaign"`
	Contributor        uint64 `json:"contributorIndex"`
	ContributorAddress string `json:"contributorAddress"`
	Amount             uint64 `json:"amount"`
}

func EncodeEventRefund(event *EventRefund) abci.Event {
	return abci.Event{
		Type: EventRefundType,
		Attributes: []abci.EventAttribute{
			{Key: "campaign", Value: strconv.FormatUint(event.Campaign, 10), Index: true},
			{Key: "contributor", Value: strconv.FormatUint(event.Contributor, 10), Index: true},
			{Key: "contributorAddress", Value: event.ContributorAddress, Index: false},
			{Key: "amount", Value: strconv.FormatUint(event.Amount, 10), Index: false},
		},
	}
}

func DecodeEventRefund(originEvent abci.Event) *EventRefund {
	event := &EventRefund{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "campaign":
			campaign, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Campaign = campaign
		case "contributor":
			contributor, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Contributor = contributor
		case "contributorAddress":
			event.ContributorAddress = v.Value
		case "amount":
			amount, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Amount = amount
		}
	}
	return event
}

type EventPoolCreated struct {
	Pool         uint64 `json:"pool"`
	Owner        uint64 `json:"ownerIndex"`
	OwnerAddress string `json:"ownerAddress"`
	Asset        string `json:"asset"`
}

func EncodeEventPoolCreated(event *EventPoolCreated) abci.Event {
	return abci.Event{
		Type: EventPoolCreatedType,
		Attributes: []abci.EventAttribute{
			{Key: "pool", Value: strconv.FormatUint(event.Pool, 10), Index: true},
			{Key: "owner", Value: strconv.FormatUint(event.Owner, 10), Index: true},
			{Key: "ownerAddress", Value: event.OwnerAddress, Index: false},
			{Key: "asset", Value: event.Asset, Index: false},
		},
	}
}

func DecodeEventPoolCreated(originEvent abci.Event) *EventPoolCreated {
	event := &EventPoolCreated{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "pool":
			pool, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Pool = pool
		case "owner":
			owner, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Owner = owner
		case "ownerAddress":
			event.OwnerAddress = v.Value
		case "asset":
			event.Asset = v.Value
		}
	}
	return event
}

type EventPoolFunds struct {
	Pool         uint64 `json:"pool"`
	Account      uint64 `json:"accountIndex"`
	Amount       uint64 `json:"amount"`
	TotalBalance uint64 `json:"totalBalance"`
}

func encodePoolFunds(eventType string, event *EventPoolFunds) abci.Event {
	return abci.Event{
		Type: eventType,
		Attributes: []abci.EventAttribute{
			{Key: "pool", Value: strconv.FormatUint(event.Pool, 10), Index: true},
			{Key: "account", Value: strconv.FormatUint(event.Account, 10), Index: true},
			{Key: "amount", Value: strconv.FormatUint(event.Amount, 10), Index: false},
			{Key: "totalBalance", Value: strconv.FormatUint(event.TotalBalance, 10), Index: false},
		},
	}
}

func EncodeEventFundsAdded(event *EventPoolFunds) abci.Event {
	return encodePoolFunds(EventFundsAddedType, event)
}

func EncodeEventFundsRemoved(event *EventPoolFunds) abci.Event {
	return encodePoolFunds(EventFundsRemovedType, event)
}

func EncodeEventFundsDistributed(event *EventPoolFunds) abci.Event {
	return encodePoolFunds(EventFundsDistributedType, event)
}

func DecodeEventPoolFunds(originEvent abci.Event) *EventPoolFunds {
	event := &EventPoolFunds{}
	for _, v := range originEvent.Attributes {
		val, err := strconv.ParseUint(v.Value, 10, 64)
		if err != nil {
			return nil
		}
		switch v.Key {
		case "pool":
			event.Pool = val
		case "account":
			event.Account = val
		case "amount":
			event.Amount = val
		case "totalBalance":
			event.TotalBalance = val
		}
	}
	return event
}
