package main

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"xdao.co/dchunk/addr"
	"xdao.co/dchunk/chunk"
	"xdao.co/dchunk/keys"
)

// fixedAESKey is the tagged AES-256 key used for the encrypted vector.
func fixedAESKey() []byte {
	k := bytes.Repeat([]byte{0xA1}, 32)
	return append([]byte{byte(keys.TagAES256)}, k...)
}

func printVector(name string, data []byte) {
	d, err := chunk.Describe(data)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%s CID=%s\n", name, d.CID)
	fmt.Printf("---BEGIN---\n%s\n---END---\n", hex.EncodeToString(data))
}

func main() {
	plain := chunk.NewBuilderV1()
	plain.SetPayload([]byte("vector"))
	b, err := plain.Bytes()
	if err != nil {
		panic(err)
	}
	printVector("v0-plain", b)

	ordered := chunk.NewBuilderV1()
	ordered.SetSignMode(chunk.EmbeddedKey)
	ordered.SetSignature([]byte{1})
	ordered.SetPublicKey([]byte{2})
	ordered.SetContentKey([]byte{3})
	ordered.SetReferences([][]byte{{4}, {5}})
	ordered.SetPayload([]byte("vector"))
	if b, err = ordered.Bytes(); err != nil {
		panic(err)
	}
	printVector("v1-ordered", b)

	sized, err := chunk.NewBuilderV2(16)
	if err != nil {
		panic(err)
	}
	sized.AddReference([]byte{4})
	head := sized.SetPayloadPart([]byte("a payload longer than one chunk"))
	if b, err = sized.Bytes(); err != nil {
		panic(err)
	}
	printVector("v2-sized", b)
	fmt.Printf("v2-sized overflow head=%q\n", head)

	f, err := keys.NewFactory()
	if err != nil {
		panic(err)
	}
	aes, err := f.CryptorFromKey(fixedAESKey())
	if err != nil {
		panic(err)
	}
	c, err := chunk.Seal(addr.Untimed(addr.NewId("vector")), []byte("vector"), nil, chunk.PlainCrypto(aes))
	if err != nil {
		panic(err)
	}
	printVector("v0-aes256", c.Data)

	h, err := keys.NewHasher(keys.HashSHA512, 256)
	if err != nil {
		panic(err)
	}
	sum, err := h.Hash([]byte("vector"))
	if err != nil {
		panic(err)
	}
	fmt.Printf("sha512/256(vector)=%s\n", hex.EncodeToString(sum))
}
