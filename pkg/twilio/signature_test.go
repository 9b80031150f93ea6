package twilio

import "testing"

func TestComputeSignature_SortsParamsByKey(t *testing.T) {
	url := "https://inbox.example.com/api/v1/webhooks/twilio"
	params := map[string]string{
		"To":         "+15550009999",
		"From":       "+15550100001",
		"Body":       "Hello",
		"MessageSid": "SM123",
	}

	got := ComputeSignature("token", url, params)

	// Same params supplied in any map order must yield the same signature
	// because the algorithm concatenates key+value in sorted key order.
	again := ComputeSignature("token", url, map[string]string{
		"MessageSid": "SM123",
		"Body":       "Hello",
		"From":       "+15550100001",
		"To":         "+15550009999",
	})

	if got != again {
		t.Fatalf("signature not stable across param order: %q vs %q", got, again)
	}
}

func TestValidateSignature_AcceptsComputedSignature(t *testing.T) {
	url := "https://inbox.example.com/api/v1/webhooks/twilio"
	params := map[string]string{"From": "+15550100001", "MessageSid": "SM123"}

	signature := ComputeSignature("token", url, params)

	if !ValidateSignature("token", url, params, signature) {
		t.Fatalf("expected computed signature to validate")
	}
}

func TestValidateSignature_RejectsTamperedParams(t *testing.T) {
	url := "https://inbox.example.com/api/v1/webhooks/twilio"
	params := map[string]string{"From": "+15550100001", "MessageSid": "SM123"}

	signature := ComputeSignature("token", url, params)

	params["Body"] = "injected"
	if ValidateSignature("token", url, params, signature) {
		t.Fatalf("expected tampered payload to be rejected")
	}
}

func TestValidateSignature_RejectsWrongURL(t *testing.T) {
	params := map[string]string{"MessageSid": "SM123"}
	signature := ComputeSignature("token", "https://inbox.example.com/a", params)

	if ValidateSignature("token", "https://inbox.example.com/b", params, signature) {
		t.Fatalf("expected signature bound to a different URL to be rejected")
	}
}

func TestValidateSignature_EmptyTokenNeverValidates(t *testing.T) {
	params := map[string]string{"MessageSid": "SM123"}
	url := "https://inbox.example.com/api/v1/webhooks/twilio"

	signature := ComputeSignature("", url, params)
	if ValidateSignature("", url, params, signature) {
		t.Fatalf("an empty auth token must never validate")
	}
}

func TestValidateSignature_EmptySignatureRejected(t *testing.T) {
	if ValidateSignature("token", "https://inbox.example.com/a", nil, "") {
		t.Fatalf("an empty signature must never validate")
	}
}
