// Package evm submits prepared route transactions to EVM chains.
package evm

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/Travisswop/swap-engine/business/wallet/domain"
	"github.com/Travisswop/swap-engine/internal/apperror"
	"github.com/Travisswop/swap-engine/internal/asset"
	"github.com/Travisswop/swap-engine/internal/logger"
)

// gasBufferPercent pads gas estimates; routes through aggregator
// contracts routinely use more gas than eth_estimateGas reports.
const gasBufferPercent = 20

// Submitter signs prepared transactions with a configured key and
// broadcasts them. One instance covers every configured EVM chain;
// connections are dialed lazily per chain and reused.
type Submitter struct {
	rpcURLs    map[uint64]string
	privateKey *ecdsa.PrivateKey
	from       common.Address
	log        logger.LoggerInterface

	mu      sync.Mutex
	clients map[uint64]*ethclient.Client
}

// NewSubmitter builds a submitter from chain-name keyed RPC endpoints
// and a hex private key.
func NewSubmitter(rpcURLs map[string]string, privateKeyHex string, log logger.LoggerInterface) (*Submitter, error) {
	if privateKeyHex == "" {
		return nil, apperror.Validation(apperror.CodeConfigurationError, "EVM private key is required")
	}
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeConfigurationError, "invalid EVM private key")
	}

	byID := make(map[uint64]string, len(rpcURLs))
	for chain, url := range rpcURLs {
		id, err := asset.ChainID(chain)
		if err != nil {
			return nil, err
		}
		byID[id] = url
	}

	return &Submitter{
		rpcURLs:    byID,
		privateKey: privateKey,
		from:       crypto.PubkeyToAddress(privateKey.PublicKey),
		log:        log,
		clients:    make(map[uint64]*ethclient.Client),
	}, nil
}

// From returns the signing address.
func (s *Submitter) From() string {
	return s.from.Hex()
}

// Submit implements app.Submitter for EVM chains.
func (s *Submitter) Submit(ctx context.Context, tx domain.Transaction) (string, error) {
	if !common.IsHexAddress(tx.To) {
		return "", apperror.Validation(apperror.CodeSubmissionFailed, fmt.Sprintf("invalid to address %q", tx.To))
	}

	client, err := s.client(ctx, tx.ChainID)
	if err != nil {
		return "", err
	}

	to := common.HexToAddress(tx.To)
	value, err := parseQuantity(tx.Value)
	if err != nil {
		return "", apperror.Wrap(err, apperror.CodeSubmissionFailed, "invalid value")
	}
	data, err := parsePayload(tx.Data)
	if err != nil {
		return "", apperror.Wrap(err, apperror.CodeSubmissionFailed, "invalid calldata")
	}

	nonce, err := client.PendingNonceAt(ctx, s.from)
	if err != nil {
		return "", apperror.Wrap(err, apperror.CodeSubmissionFailed, "nonce lookup")
	}

	gasPrice, err := s.gasPrice(ctx, client, tx.GasPrice)
	if err != nil {
		return "", err
	}

	gasLimit, err := s.gasLimit(ctx, client, tx, to, value, data, gasPrice)
	if err != nil {
		return "", err
	}

	signed, err := types.SignTx(
		types.NewTransaction(nonce, to, value, gasLimit, gasPrice, data),
		types.LatestSignerForChainID(new(big.Int).SetUint64(tx.ChainID)),
		s.privateKey,
	)
	if err != nil {
		return "", apperror.Wrap(err, apperror.CodeSubmissionFailed, "sign")
	}

	if err := client.SendTransaction(ctx, signed); err != nil {
		return "", apperror.Wrap(err, apperror.CodeSubmissionFailed, "broadcast")
	}

	hash := signed.Hash().Hex()
	s.log.Info(ctx, "transaction submitted",
		"chainId", tx.ChainID, "hash", hash, "to", tx.To, "gasLimit", gasLimit)
	return hash, nil
}

func (s *Submitter) client(ctx context.Context, chainID uint64) (*ethclient.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if client, ok := s.clients[chainID]; ok {
		return client, nil
	}

	url, ok := s.rpcURLs[chainID]
	if !ok {
		return nil, apperror.New(apperror.CodeProviderUnavailable,
			apperror.WithContext(fmt.Sprintf("no RPC endpoint for chain %d", chainID)))
	}

	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeProviderUnavailable, "dial RPC")
	}
	s.clients[chainID] = client
	return client, nil
}

func (s *Submitter) gasPrice(ctx context.Context, client *ethclient.Client, hinted string) (*big.Int, error) {
	if hinted != "" {
		price, err := parseQuantity(hinted)
		if err == nil && price.Sign() > 0 {
			return price, nil
		}
	}
	price, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeSubmissionFailed, "gas price")
	}
	return price, nil
}

func (s *Submitter) gasLimit(ctx context.Context, client *ethclient.Client, tx domain.Transaction, to common.Address, value *big.Int, data []byte, gasPrice *big.Int) (uint64, error) {
	if tx.GasLimit != "" {
		limit, err := parseQuantity(tx.GasLimit)
		if err == nil && limit.IsUint64() && limit.Sign() > 0 {
			return limit.Uint64(), nil
		}
	}

	estimate, err := client.EstimateGas(ctx, ethereum.CallMsg{
		From:     s.from,
		To:       &to,
		Value:    value,
		Data:     data,
		GasPrice: gasPrice,
	})
	if err != nil {
		return 0, apperror.Wrap(err, apperror.CodeSubmissionFailed, "gas estimate")
	}
	return BufferGas(estimate), nil
}

// BufferGas pads an estimate by gasBufferPercent.
func BufferGas(estimate uint64) uint64 {
	return estimate + estimate*gasBufferPercent/100
}

// Close releases all dialed connections.
func (s *Submitter) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, client := range s.clients {
		client.Close()
		delete(s.clients, id)
	}
}

// parseQuantity parses a numeric transaction field in either the
// 0x-prefixed hex or plain decimal form. Empty means zero.
func parseQuantity(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return big.NewInt(0), nil
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return hexutil.DecodeBig(s)
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("evm: malformed quantity %q", s)
	}
	return n, nil
}

func parsePayload(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0x" {
		return nil, nil
	}
	return hexutil.Decode(s)
}
