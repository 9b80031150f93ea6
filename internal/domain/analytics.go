package domain

type ChannelCount struct {
	Channel Channel `db:"channel" json:"channel"`
	Count   int64   `db:"count" json:"count"`
}

type DailyCount struct {
	Date  string `db:"date" json:"date"`
	Count int64  `db:"count" json:"count"`
}

type AnalyticsSummary struct {
	TotalMessages     int64          `json:"totalMessages"`
	TotalContacts     int64          `json:"totalContacts"`
	MessagesByChannel []ChannelCount `json:"messagesByChannel"`
	MessagesOverTime  []DailyCount   `json:"messagesOverTime"`
}
