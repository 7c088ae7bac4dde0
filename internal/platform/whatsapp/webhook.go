package whatsapp

// Webhook payload types for the Graph API message notification, trimmed to
// the fields the bot reads.

type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	Changes []Change `json:"changes"`
}

type Change struct {
	Value Value `json:"value"`
}

type Value struct {
	Messages []Message `json:"messages"`
	Contacts []Contact `json:"contacts"`
}

type Message struct {
	From string      `json:"from"`
	Text MessageText `json:"text"`
}

type MessageText struct {
	Body string `json:"body"`
}

type Contact struct {
	WaID    string  `json:"wa_id"`
	Profile Profile `json:"profile"`
}

type Profile struct {
	Name string `json:"name"`
}

// InboundMessage is one user turn extracted from a webhook delivery.
type InboundMessage struct {
	From string
	Name string
	Text string
}

// Inbound flattens a webhook payload into the text messages it carries.
// Non-text and anonymous messages are skipped.
func (p *WebhookPayload) Inbound() []InboundMessage {
	if p.Object != "whatsapp_business_account" {
		return nil
	}
	var out []InboundMessage
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			name := "Unknown"
			from := ""
			if len(change.Value.Contacts) > 0 {
				from = change.Value.Contacts[0].WaID
				if n := change.Value.Contacts[0].Profile.Name; n != "" {
					name = n
				}
			}
			for _, msg := range change.Value.Messages {
				sender := msg.From
				if sender == "" {
					sender = from
				}
				if sender == "" || msg.Text.Body == "" {
					continue
				}
				out = append(out, InboundMessage{From: sender, Name: name, Text: msg.Text.Body})
			}
		}
	}
	return out
}
