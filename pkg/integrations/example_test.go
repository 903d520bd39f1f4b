package integrations_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/matzehuels/chouse/pkg/integrations"
)

func ExampleClient_Get() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"errors":[{"error":"invalid-authorization-header"}]}`))
	}))
	defer server.Close()

	client := integrations.NewClient(nil, "example", time.Minute, nil)

	_, err := client.Get(context.Background(), server.URL+"/company/00000006")
	if up, ok := integrations.AsUpstream(err); ok {
		fmt.Println(up.StatusCode)
		fmt.Println(string(up.Body))
	}
	// Output:
	// 403
	// {"errors":[{"error":"invalid-authorization-header"}]}
}

func Example_errors() {
	fmt.Println("ErrNetwork:", integrations.ErrNetwork)
	// Output:
	// ErrNetwork: NETWORK_ERROR: network error
}
