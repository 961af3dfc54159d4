package main

import (
	"fmt"
	"io/ioutil"

	"github.com/urfave/cli"

	"github.com/pombreda/argus-pep-api-c/xacml"
)

// decodeCommand reads a Hessian-encoded Request or Response from a file and
// prints its domain representation, for troubleshooting wire captures.
func decodeCommand() cli.Command {
	return cli.Command{
		Name:  "decode",
		Usage: "pepcli decode <file> -- parse a Hessian-encoded Request or Response and print it",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: pepcli decode <file>")
			}
			data, err := ioutil.ReadFile(c.Args().Get(0))
			if err != nil {
				return err
			}
			if req, err := xacml.UnmarshalRequest(data); err == nil {
				fmt.Printf("%+v\n", req)
				return nil
			}
			resp, err := xacml.UnmarshalResponse(data)
			if err != nil {
				return fmt.Errorf("not a recognizable Request or Response: %w", err)
			}
			fmt.Printf("%+v\n", resp)
			return nil
		},
	}
}

// encodeCommand is the dual of decode. decode's %+v dump is not itself
// machine-readable, so encode instead exercises the codec on a synthetic
// Permit response, writing the resulting bytes to the named file. Useful
// for generating fixtures.
func encodeCommand() cli.Command {
	return cli.Command{
		Name:  "encode",
		Usage: "pepcli encode <file> -- write a sample Hessian-encoded Response to a file",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: pepcli encode <file>")
			}
			resp := &xacml.Response{
				Results: []xacml.Result{{
					Decision: xacml.Permit,
					Status:   &xacml.Status{Message: "ok"},
				}},
			}
			data, err := xacml.MarshalResponse(resp)
			if err != nil {
				return err
			}
			return ioutil.WriteFile(c.Args().Get(0), data, 0644)
		},
	}
}
