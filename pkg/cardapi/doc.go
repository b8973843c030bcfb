// Package cardapi defines the public types, configuration, and client
// interfaces for the card-request issuance API.
//
// The card API tracks physical identity card requests through a fixed status
// lifecycle. This package is consumed in two ways: anonymously, to look up the
// status of a single card request by its identifying fields, and as an
// authenticated administrator, to list, filter, and update pending requests.
//
// Use pkg/cardclient to construct a working client:
//
//	client, err := cardclient.New(&cardapi.Config{
//		APIEndpoint: "https://cards.example.gov",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	status, err := client.Public().Lookup(ctx, &cardapi.StatusLookupRequest{
//		LastName:   "Alami",
//		CIN:        "AB123456",
//		PostalCode: "20000",
//		Region:     "casablanca-settat",
//	})
//
// Administrative operations require a session; see Client.Auth and
// Client.Requests.
package cardapi
