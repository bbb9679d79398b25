//go:build integration

package e2e

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIServer_MarketplaceWorkflow(t *testing.T) {
	setup := NewTestSetup(t)
	defer setup.Cleanup()

	setup.AssertServerHealth()

	alice := setup.Token("alice")
	bob := setup.Token("bob")

	var chainID, tokenID, walletID, endpointID string

	t.Run("CreateCatalogue", func(t *testing.T) {
		status, body := setup.Do("POST", "/api/chains", map[string]interface{}{
			"name":            "Base Sepolia",
			"chainId":         84532,
			"explorerBaseUrl": "https://sepolia.basescan.org",
		}, alice)
		require.Equal(t, http.StatusCreated, status, body)
		chainID = body["id"].(string)

		status, body = setup.Do("POST", "/api/tokens", map[string]interface{}{
			"symbol":           "USDC",
			"chainId":          chainID,
			"contractAddress":  "0x036cbd53842c5426634e7929541ec2318f3dcf7e",
			"decimals":         6,
			"explorerTokenUrl": "",
		}, alice)
		require.Equal(t, http.StatusCreated, status, body)
		tokenID = body["id"].(string)

		// Duplicate chain ids violate the unique index
		status, body = setup.Do("POST", "/api/chains", map[string]interface{}{
			"name":            "Another",
			"chainId":         84532,
			"explorerBaseUrl": "https://sepolia.basescan.org",
		}, alice)
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "Internal Server Error", body["message"])
	})

	t.Run("LinkWallet", func(t *testing.T) {
		status, body := setup.Do("POST", "/api/wallets", map[string]interface{}{
			"address": "0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359",
		}, alice)
		require.Equal(t, http.StatusCreated, status, body)
		walletID = body["id"].(string)

		status, body = setup.Do("POST", "/api/wallets", map[string]interface{}{
			"address": "0xFB6916095CA1DF60BB79CE92CE3EA74C37C5D359",
		}, alice)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, walletID, body["id"])
	})

	t.Run("CreateEndpoint", func(t *testing.T) {
		status, body := setup.Do("POST", "/api/api-endpoints", map[string]interface{}{
			"description":    "Weather by city",
			"docsUrl":        "https://docs.example.com",
			"sampleResponse": `{"temp":21}`,
			"walletId":       walletID,
			"priceAmount":    "10000",
			"tokenId":        tokenID,
			"providerUrl":    "https://api.example.com/weather",
			"requestBody": []map[string]interface{}{
				{"fieldName": "city", "fieldType": "string", "required": true},
			},
		}, alice)
		require.Equal(t, http.StatusCreated, status, body)
		endpointID = body["id"].(string)

		status, body = setup.Do("GET", "/api/api-endpoints/"+endpointID, nil, alice)
		require.Equal(t, http.StatusOK, status)
		detail := body["data"].(map[string]interface{})
		assert.Regexp(t, `^/[A-Za-z0-9_-]{10}$`, detail["gatewayPath"])
		assert.Len(t, detail["requestBody"], 1)
		assert.Equal(t, true, detail["isActive"])
	})

	t.Run("OwnershipIsEnforced", func(t *testing.T) {
		status, _ := setup.Do("GET", "/api/api-endpoints/"+endpointID, nil, bob)
		assert.Equal(t, http.StatusNotFound, status)

		status, body := setup.Do("GET", "/api/api-endpoints", nil, bob)
		assert.Equal(t, http.StatusOK, status)
		assert.Empty(t, body["data"])
	})

	t.Run("UpdateAndDelete", func(t *testing.T) {
		status, _ := setup.Do("PUT", "/api/api-endpoints/"+endpointID, map[string]interface{}{
			"isActive":    false,
			"requestBody": []interface{}{},
		}, alice)
		require.Equal(t, http.StatusOK, status)

		_, body := setup.Do("GET", "/api/api-endpoints/"+endpointID, nil, alice)
		detail := body["data"].(map[string]interface{})
		assert.Equal(t, false, detail["isActive"])
		assert.Empty(t, detail["requestBody"])

		status, _ = setup.Do("DELETE", "/api/api-endpoints/"+endpointID, nil, alice)
		require.Equal(t, http.StatusOK, status)
		status, _ = setup.Do("GET", "/api/api-endpoints/"+endpointID, nil, alice)
		assert.Equal(t, http.StatusNotFound, status)
	})
}
