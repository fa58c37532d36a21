package contracts

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const daoABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "id", "type": "uint256"},
      {"indexed": false, "internalType": "string", "name": "description", "type": "string"},
      {"indexed": false, "internalType": "uint256", "name": "deadline", "type": "uint256"}
    ],
    "name": "ProposalCreated",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "id", "type": "uint256"},
      {"indexed": false, "internalType": "string", "name": "description", "type": "string"},
      {"indexed": false, "internalType": "address", "name": "recipient", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "amount", "type": "uint256"}
    ],
    "name": "ProposalFulfilled",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "id", "type": "uint256"},
      {"indexed": true, "internalType": "address", "name": "voter", "type": "address"},
      {"indexed": false, "internalType": "uint8", "name": "state", "type": "uint8"},
      {"indexed": false, "internalType": "string", "name": "comment", "type": "string"}
    ],
    "name": "Voted",
    "type": "event"
  },
  {
    "inputs": [],
    "name": "proposalCount",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

const nameServiceABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "string", "name": "name", "type": "string"},
      {"indexed": true, "internalType": "address", "name": "owner", "type": "address"},
      {"indexed": false, "internalType": "string", "name": "imageHash", "type": "string"}
    ],
    "name": "NameRegistered",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "string", "name": "name", "type": "string"},
      {"indexed": true, "internalType": "address", "name": "oldOwner", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "newOwner", "type": "address"}
    ],
    "name": "NameTransferred",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "string", "name": "name", "type": "string"},
      {"indexed": true, "internalType": "address", "name": "newAddress", "type": "address"},
      {"indexed": false, "internalType": "string", "name": "newImageHash", "type": "string"}
    ],
    "name": "NameUpdated",
    "type": "event"
  },
  {
    "inputs": [
      {"internalType": "string", "name": "name", "type": "string"},
      {"internalType": "address", "name": "newOwner", "type": "address"}
    ],
    "name": "transferName",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  }
]`

var (
	daoABI     abi.ABI
	daoABIOnce sync.Once
	daoABIErr  error

	nameServiceABI     abi.ABI
	nameServiceABIOnce sync.Once
	nameServiceABIErr  error
)

// DAOABI returns the parsed DAO contract ABI.
func DAOABI() (abi.ABI, error) {
	daoABIOnce.Do(func() {
		daoABI, daoABIErr = abi.JSON(strings.NewReader(daoABIJSON))
	})
	return daoABI, daoABIErr
}

// NameServiceABI returns the parsed name service contract ABI.
func NameServiceABI() (abi.ABI, error) {
	nameServiceABIOnce.Do(func() {
		nameServiceABI, nameServiceABIErr = abi.JSON(strings.NewReader(nameServiceABIJSON))
	})
	return nameServiceABI, nameServiceABIErr
}
