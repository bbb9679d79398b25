package services_test

import (
	"testing"

	"github.com/rxtech-lab/x402-marketplace/internal/services"
	"github.com/stretchr/testify/suite"
)

type WalletServiceTestSuite struct {
	suite.Suite
	walletService services.WalletService
}

func (suite *WalletServiceTestSuite) SetupTest() {
	suite.walletService = services.NewWalletService(setupTestDB(suite.T()))
}

func (suite *WalletServiceTestSuite) TestSaveWalletIsIdempotent() {
	id, created, err := suite.walletService.SaveWallet("alice", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	suite.Require().NoError(err)
	suite.True(created)

	again, created, err := suite.walletService.SaveWallet("alice", "0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED")
	suite.Require().NoError(err)
	suite.False(created)
	suite.Equal(id, again)

	wallets, err := suite.walletService.ListWallets("alice")
	suite.Require().NoError(err)
	suite.Len(wallets, 1)
	suite.Equal("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", wallets[0].Address)
}

func (suite *WalletServiceTestSuite) TestAddressLinkedByAnotherUser() {
	id, _, err := suite.walletService.SaveWallet("alice", "wallet-address-1")
	suite.Require().NoError(err)

	// The existing row is reported without being re-assigned
	sameID, created, err := suite.walletService.SaveWallet("bob", "wallet-address-1")
	suite.Require().NoError(err)
	suite.False(created)
	suite.Equal(id, sameID)

	owned, err := suite.walletService.IsOwnedBy("bob", id)
	suite.Require().NoError(err)
	suite.False(owned)

	bobWallets, err := suite.walletService.ListWallets("bob")
	suite.Require().NoError(err)
	suite.Empty(bobWallets)
}

func (suite *WalletServiceTestSuite) TestDeleteIsOwnershipScoped() {
	id, _, err := suite.walletService.SaveWallet("alice", "wallet-address-2")
	suite.Require().NoError(err)

	suite.ErrorIs(suite.walletService.DeleteWallet("bob", id), services.ErrNotFound)
	suite.Require().NoError(suite.walletService.DeleteWallet("alice", id))
	suite.ErrorIs(suite.walletService.DeleteWallet("alice", id), services.ErrNotFound)
}

func TestWalletServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WalletServiceTestSuite))
}
