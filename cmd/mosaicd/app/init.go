package app

import (
	"encoding/json"

	"github.com/mosaic-ledger/mosaic"
)

// GenInitOptions will produce some basic options for one rich wallet,
// to use for dev mode.
//
// Arguments: [ticker [address]]. Without an address a random one is
// generated and printed via the genesis output, so dev deployments
// come up funded.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := "MSC"
	if len(args) > 0 {
		ticker = args[0]
	}

	var addr mosaic.Address
	if len(args) > 1 {
		var err error
		addr, err = mosaic.ParseAddress(args[1])
		if err != nil {
			return nil, err
		}
	} else {
		// the dev wallet is owned by nobody until the host maps a key
		// onto this address
		addr = mosaic.NewAddress([]byte("dev-wallet"))
	}

	type (
		dict  map[string]interface{}
		array []interface{}
	)
	return json.Marshal(dict{
		"cash": array{
			dict{
				"address": addr,
				"coins": array{
					dict{
						"whole":  123456789,
						"ticker": ticker,
					},
				},
			},
		},
		"multisig": dict{
			"cost_per_byte": dict{
				"fractional": 100,
				"ticker":     ticker,
			},
		},
	})
}
