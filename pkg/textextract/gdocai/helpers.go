package gdocai

import (
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

var protoJSON = protojson.MarshalOptions{Multiline: true, Indent: "  "}

// ToJSON renders data as indented JSON. Protocol buffer messages go through
// protojson so field names follow the API's JSON mapping.
func ToJSON(data interface{}) (string, error) {
	var (
		out []byte
		err error
	)
	if msg, ok := data.(proto.Message); ok {
		out, err = protoJSON.Marshal(msg)
	} else {
		out, err = json.MarshalIndent(data, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(out), nil
}
