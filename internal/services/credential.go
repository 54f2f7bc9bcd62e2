package services

import (
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// Azurite's well-known development account.
const (
	azuriteAccountName = "devstoreaccount1"
	azuriteAccountKey  = "Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw=="
)

// isLocal reports whether a service URL points at a local Azurite endpoint
// (plain http) rather than a real storage account.
func isLocal(serviceURL string) bool {
	return strings.HasPrefix(serviceURL, "http://")
}

// azuriteCredentials returns the development account name and key.
func azuriteCredentials() (string, string) {
	return azuriteAccountName, azuriteAccountKey
}

// defaultCredential builds the managed-identity credential used outside of
// local development.
func defaultCredential() (azcore.TokenCredential, error) {
	return azidentity.NewDefaultAzureCredential(nil)
}
