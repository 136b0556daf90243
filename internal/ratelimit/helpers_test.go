package ratelimit_test

import (
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

func ethereumCallMsg() ethereum.CallMsg {
	to := common.HexToAddress("0x1111111111111111111111111111111111111111")
	return ethereum.CallMsg{To: &to, Data: []byte{0x06, 0xfd, 0xde, 0x03}}
}

func filterQuery() ethereum.FilterQuery {
	return ethereum.FilterQuery{Addresses: []common.Address{common.HexToAddress("0x1111111111111111111111111111111111111111")}}
}
