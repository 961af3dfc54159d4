package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"io/ioutil"
	"time"

	"github.com/op/go-logging"
	uuid "github.com/satori/go.uuid"
	"github.com/urfave/cli"

	"github.com/pombreda/argus-pep-api-c/colorterm"
	"github.com/pombreda/argus-pep-api-c/pep"
	"github.com/pombreda/argus-pep-api-c/subject"
	"github.com/pombreda/argus-pep-api-c/xacml"
)

func authorizeCommand(log *logging.Logger) cli.Command {
	return cli.Command{
		Name:  "authorize",
		Usage: "pepcli authorize --endpoint <url> --resource-id <id> --action-id <id> [identity flags] -- ask a PEP daemon for a decision",
		Flags: []cli.Flag{
			cli.StringSliceFlag{Name: "endpoint", Usage: "PEP daemon authorization URL (repeatable; tried in order)"},
			cli.StringFlag{Name: "cert", Usage: "PEM file containing the requester's certificate chain"},
			cli.StringFlag{Name: "dn", Usage: "explicit X.500 subject DN, overrides --cert"},
			cli.StringSliceFlag{Name: "fqan", Usage: "VOMS FQAN, primary first (repeatable)"},
			cli.StringFlag{Name: "resource-id", Usage: "resource-id attribute value for the single Resource in the request"},
			cli.StringFlag{Name: "action-id", Usage: "action-id attribute value for the Action in the request"},
		},
		Action: func(c *cli.Context) error {
			return runAuthorize(c, log)
		},
	}
}

func runAuthorize(c *cli.Context, log *logging.Logger) error {
	endpoints := c.StringSlice("endpoint")
	if len(endpoints) == 0 {
		return fmt.Errorf("at least one --endpoint is required")
	}

	in := subjectInputs(c)
	subj, err := subject.Build(in)
	if err != nil {
		return err
	}

	correlationID := uuid.NewV4()
	log.Noticef("authorize request %s", correlationID.String())

	req := &xacml.Request{
		Subjects: []xacml.Subject{*subj},
		Resources: []xacml.Resource{{
			Attributes: []xacml.Attribute{{
				ID:     "urn:oasis:names:tc:xacml:1.0:resource:resource-id",
				Values: []string{c.String("resource-id")},
			}},
		}},
		Action: &xacml.Action{
			Attributes: []xacml.Attribute{{
				ID:     "urn:oasis:names:tc:xacml:1.0:action:action-id",
				Values: []string{c.String("action-id")},
			}},
		},
	}

	client := &pep.Client{Endpoints: endpoints, Log: log}
	if certPEM := in.CertPEM; len(certPEM) > 0 {
		if keyFile := c.String("cert"); keyFile != "" {
			if cert, err := tls.LoadX509KeyPair(keyFile, keyFile); err == nil {
				client.ClientCert = &cert
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Authorize(ctx, req)
	if err != nil {
		return err
	}

	for _, result := range resp.Results {
		printResult(&result)
	}
	return nil
}

func subjectInputs(c *cli.Context) subject.Inputs {
	in := subject.Inputs{DN: c.String("dn"), FQANs: c.StringSlice("fqan")}
	if certFile := c.String("cert"); certFile != "" {
		if data, err := ioutil.ReadFile(certFile); err == nil {
			in.CertPEM = data
		}
	}
	return in
}

func printResult(r *xacml.Result) {
	fmt.Println(colorterm.Decision(r.Decision))
	if r.ResourceID != nil {
		fmt.Printf("resource %s\n", colorterm.ResourceID(*r.ResourceID))
	}
	if r.Status != nil {
		fmt.Println(r.Status.Message)
	}
	for _, o := range r.Obligations {
		renderObligation(&o)
	}
}
