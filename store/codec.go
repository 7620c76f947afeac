package store

import (
	jsoniter "github.com/json-iterator/go"

	"cardroom.io/server/game"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func encodeSession(s *game.Session) ([]byte, error) {
	return json.Marshal(s)
}

func decodeSession(data []byte) (*game.Session, error) {
	var s game.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
