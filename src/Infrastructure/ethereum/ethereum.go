// Package ethereum reads the admin liquidity balance from the onramp
// contract. The client is strictly read-only: one zero-argument view
// function returning the available balance in micro-USDC (6 decimals).
package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

const balanceABI = `[
	{
		"constant": true,
		"inputs": [],
		"name": "getBalance",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

// Errors
var (
	ErrMissingRPCURL          = errors.New("missing RPC URL")
	ErrMissingContractAddress = errors.New("contract address not configured")
	ErrConnectNetwork         = errors.New("failed to connect to network")
	ErrParseABI               = errors.New("failed to parse ABI")
	ErrContractCall           = errors.New("failed to call contract function")
	ErrMalformedBalance       = errors.New("contract returned a malformed balance")
)

// Config holds the chain read configuration. ContractAddress may be empty;
// in that case every GetBalance call fails with ErrMissingContractAddress
// instead of falling back to a default address.
type Config struct {
	RPCURL          string
	ContractAddress string
}

// LiquidityClient wraps an ethclient plus the bound onramp contract.
type LiquidityClient struct {
	client   *ethclient.Client
	contract *bind.BoundContract
	config   Config
}

// NewLiquidityClient dials the RPC endpoint and binds the contract when an
// address is configured. A missing address is not a constructor error: the
// client still comes up so the rest of the service can run, and the
// configuration error surfaces per-call.
func NewLiquidityClient(ctx context.Context, config Config) (*LiquidityClient, error) {
	if config.RPCURL == "" {
		return nil, ErrMissingRPCURL
	}

	client, err := ethclient.DialContext(ctx, config.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectNetwork, err)
	}

	parsedABI, err := abi.JSON(strings.NewReader(balanceABI))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrParseABI, err)
	}

	lc := &LiquidityClient{client: client, config: config}
	if config.ContractAddress != "" {
		lc.contract = bind.NewBoundContract(
			common.HexToAddress(config.ContractAddress), parsedABI, client, client, client)
	}
	return lc, nil
}

func (lc *LiquidityClient) Close() { lc.client.Close() }

// GetBalance performs the read-only getBalance() call and returns the
// available liquidity in micro-USDC.
func (lc *LiquidityClient) GetBalance(ctx context.Context) (*big.Int, error) {
	if lc.contract == nil {
		return nil, ErrMissingContractAddress
	}

	var out []interface{}
	if err := lc.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getBalance"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContractCall, err)
	}
	if len(out) != 1 {
		return nil, ErrMalformedBalance
	}
	balance, ok := out[0].(*big.Int)
	if !ok || balance.Sign() < 0 {
		return nil, ErrMalformedBalance
	}
	return balance, nil
}
