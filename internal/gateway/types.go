package gateway

import (
	"fmt"
	"time"
)

// CollectResponse is the gateway's answer to a create-collect-request call.
type CollectResponse struct {
	CollectRequestID  string `json:"collect_request_id"`
	CollectRequestURL string `json:"collect_request_url"`
}

// CollectStatus is the gateway's report for one collection request. Every
// nested field is optional on the wire; absence is modelled with pointers so
// the orchestrator can apply sentinels explicitly instead of chasing nils.
type CollectStatus struct {
	Status            string          `json:"status"`
	Amount            float64         `json:"amount"`
	TransactionAmount *float64        `json:"transaction_amount,omitempty"`
	StatusCode        int             `json:"status_code"`
	Details           *CollectDetails `json:"details,omitempty"`
	PaymentTime       *time.Time      `json:"payment_time,omitempty"`
}

type CollectDetails struct {
	PaymentMode    string          `json:"payment_mode"`
	BankRef        string          `json:"bank_ref"`
	PaymentMethods *PaymentMethods `json:"payment_methods,omitempty"`
}

type PaymentMethods struct {
	UPI *UPIMethod `json:"upi,omitempty"`
}

type UPIMethod struct {
	Channel *string `json:"channel"`
	UPIID   string  `json:"upi_id"`
}

// Error is returned for any transport failure or non-2xx gateway answer.
// Body is kept for server-side logging and never echoed to API callers.
type Error struct {
	Op         string
	StatusCode int
	Body       string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("gateway %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("gateway %s: status %d", e.Op, e.StatusCode)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
