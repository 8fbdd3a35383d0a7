package router

import (
	"context"
	"net/http"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
)

const openAPIFile = "../../../public/docs/v1/openapi.yml"

func loadOpenAPIDoc(t *testing.T) *openapi3.T {
	t.Helper()
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(openAPIFile)
	if err != nil {
		t.Fatalf("load %s: %v", openAPIFile, err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("document failed OpenAPI 3 validation: %v", err)
	}
	return doc
}

func TestOpenAPIDocumentDescribesMountedRoutes(t *testing.T) {
	doc := loadOpenAPIDoc(t)

	// Paths the served API must keep documented. The doc is relative to the
	// /api/v1 server prefix.
	wantOps := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/auth/otp/request"},
		{http.MethodPost, "/auth/otp/verify"},
		{http.MethodGet, "/moodboards"},
		{http.MethodGet, "/moodboards/calendar"},
		{http.MethodGet, "/moodboards/{id}"},
		{http.MethodGet, "/moodboards/{id}/similar"},
		{http.MethodPost, "/bookings"},
		{http.MethodGet, "/bookings"},
		{http.MethodPost, "/payments/create-order"},
		{http.MethodPost, "/payments/verify"},
		{http.MethodPost, "/payments/webhook"},
	}

	for _, op := range wantOps {
		item := doc.Paths.Find(op.path)
		if item == nil {
			t.Errorf("path %s missing from document", op.path)
			continue
		}
		if item.GetOperation(op.method) == nil {
			t.Errorf("operation %s %s missing from document", op.method, op.path)
		}
	}
}

func TestOpenAPIPaymentContracts(t *testing.T) {
	doc := loadOpenAPIDoc(t)

	createOrder := doc.Paths.Find("/payments/create-order").GetOperation(http.MethodPost)
	if createOrder == nil {
		t.Fatal("POST /payments/create-order not documented")
	}
	for _, status := range []string{"200", "400", "401", "403", "404", "500"} {
		if createOrder.Responses.Value(status) == nil {
			t.Errorf("create-order must document response %s", status)
		}
	}

	webhook := doc.Paths.Find("/payments/webhook").GetOperation(http.MethodPost)
	if webhook == nil {
		t.Fatal("POST /payments/webhook not documented")
	}
	// The webhook contract: 400 only for a bad signature, 200 for everything
	// else so the gateway never retries a handled delivery.
	if webhook.Responses.Value("200") == nil || webhook.Responses.Value("400") == nil {
		t.Error("webhook must document 200 and 400 responses")
	}
	if got := len(webhook.Responses.Map()); got != 2 {
		t.Errorf("webhook documents %d responses, want exactly 200 and 400", got)
	}

	foundSigHeader := false
	for _, p := range webhook.Parameters {
		if p.Value != nil && p.Value.In == "header" && p.Value.Name == "X-Razorpay-Signature" {
			foundSigHeader = true
		}
	}
	if !foundSigHeader {
		t.Error("webhook must document the X-Razorpay-Signature header parameter")
	}
}
