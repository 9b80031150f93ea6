package domain

import "strings"

type Channel string

const (
	ChannelSMS      Channel = "SMS"
	ChannelWhatsApp Channel = "WHATSAPP"

	// Reserved for future channels; no sender is implemented for these yet.
	ChannelEmail    Channel = "EMAIL"
	ChannelTwitter  Channel = "TWITTER"
	ChannelFacebook Channel = "FACEBOOK"
)

const WhatsAppPrefix = "whatsapp:"

// ChannelFromAddress determines the channel from a raw provider address.
// Twilio prefixes WhatsApp numbers with "whatsapp:".
func ChannelFromAddress(addr string) Channel {
	if strings.Contains(addr, WhatsAppPrefix) {
		return ChannelWhatsApp
	}
	return ChannelSMS
}

// WhatsAppAddress prefixes a phone number for WhatsApp delivery if it
// is not already prefixed.
func WhatsAppAddress(phone string) string {
	if strings.HasPrefix(phone, WhatsAppPrefix) {
		return phone
	}
	return WhatsAppPrefix + phone
}

type Direction string

const (
	DirectionInbound  Direction = "INBOUND"
	DirectionOutbound Direction = "OUTBOUND"
)
