package legacy_test

import (
	"fmt"

	"github.com/openabi/openabi-go/legacy"
)

func ExampleUnmarshal() {
	raw := []byte(`{
		"schema_version": "0.1.0",
		"metadata": {"name": "faucet"},
		"body": {
			"functions": [
				{
					"name": "request",
					"is_payable": true,
					"params": [
						{"name": "amount", "serialization_type": "json", "type_schema": {"type": "string"}}
					]
				}
			],
			"root_schema": {}
		}
	}`)

	doc, err := legacy.Unmarshal(raw)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fn := doc.Body.Functions[0]
	fmt.Println(doc.SchemaVersion)
	fmt.Printf("%s: %s function, modifiers %v, %d parameter(s)\n",
		fn.Name, fn.Kind, fn.Modifiers, fn.Params.Len())
	// Output:
	// 0.3.0
	// request: call function, modifiers [payable], 1 parameter(s)
}
