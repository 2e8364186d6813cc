package telnyx

type messageRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}

type messageResponse struct {
	Data *messageData `json:"data"`
}

type messageData struct {
	ID string            `json:"id"`
	To []messageReceiver `json:"to"`
}

type messageReceiver struct {
	PhoneNumber string `json:"phone_number"`
	Status      string `json:"status"`
}

type dialRequest struct {
	To           string `json:"to"`
	From         string `json:"from"`
	ConnectionID string `json:"connection_id"`
}

type speakRequest struct {
	Payload  string `json:"payload"`
	Voice    string `json:"voice"`
	Language string `json:"language"`
}

type answerRequest struct {
	ClientState string `json:"client_state,omitempty"`
}
