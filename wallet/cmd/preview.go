package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"

	"github.com/digicred/walletgo"
	"github.com/digicred/walletgo/internal/common"
)

// previewCmd represents the preview command
var previewCmd = &cobra.Command{
	Use:   "preview <invitation>",
	Short: "Decode an out-of-band invitation and show what it offers or requests",
	Long: `Decode an out-of-band invitation and show what it offers or requests.

The invitation may be an https URL (the encoded invitation is taken from the
oob or c_i query parameter, or fetched from the URL), or a path to a file
containing the raw invitation JSON.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		raw, source, err := resolveInvitation(args[0])
		if err != nil {
			die("failed to obtain invitation", err)
		}
		envelope, err := walletgo.ParseInvitation(source, raw)
		if err != nil {
			die("failed to parse invitation", err)
		}
		if err := printPreview(envelope); err != nil {
			die("failed to decode invitation payload", err)
		}
	},
}

// resolveInvitation turns the command argument into raw invitation JSON.
func resolveInvitation(arg string) (raw []byte, source string, err error) {
	if !strings.HasPrefix(arg, "http://") && !strings.HasPrefix(arg, "https://") {
		raw, err = os.ReadFile(arg)
		return raw, arg, err
	}

	parsed, err := url.Parse(arg)
	if err != nil {
		return nil, arg, err
	}
	for _, param := range []string{"oob", "c_i"} {
		if encoded := parsed.Query().Get(param); encoded != "" {
			raw, err = common.Base64Decode([]byte(encoded))
			return raw, arg, err
		}
	}

	transport := walletgo.NewHTTPTransport("")
	raw, err = transport.GetBytes(context.Background(), arg)
	return raw, arg, err
}

func printPreview(envelope *walletgo.InvitationEnvelope) error {
	fmt.Println("Invitation: ", envelope.ID)
	if envelope.Label != "" {
		fmt.Println("From:       ", envelope.Label)
	}
	if envelope.Comment != "" {
		fmt.Println("Comment:    ", envelope.Comment)
	}
	fmt.Println("Kind:       ", envelope.Kind)
	fmt.Println("Formats:    ", strings.Join(envelope.Formats, ", "))

	switch envelope.Kind {
	case walletgo.KindOfferCredential:
		record, err := walletgo.NewCredentialOffer(envelope.ID, envelope)
		if err != nil {
			return err
		}
		if record == nil {
			fmt.Println("\nUnrecognized credential format; raw payload:")
			return printRaw(envelope.Payload)
		}
		fmt.Println("Documents:  ", strings.Join(record.DocumentTypes, ", "))
		printClaims(record.Claims())
	case walletgo.KindRequestPresentation:
		record, err := walletgo.NewVerificationRequest(envelope.ID, envelope)
		if err != nil {
			return err
		}
		if record == nil {
			fmt.Println("\nUnrecognized presentation request format; raw payload:")
			return printRaw(envelope.Payload)
		}
		if record.Name != "" {
			fmt.Println("Name:       ", record.Name)
		}
		if record.Purpose != "" {
			fmt.Println("Purpose:    ", record.Purpose)
		}
		fmt.Println("Documents:  ", strings.Join(record.DocumentTypes, ", "))
		printClaims(record.Claims())
	default:
		return errors.Errorf("unsupported invitation kind %s", envelope.Kind)
	}
	return nil
}

func printClaims(claims []walletgo.Claim) {
	if len(claims) == 0 {
		return
	}
	fmt.Println("\nClaims:")
	for _, claim := range claims {
		fmt.Printf("  %s: %s\n", claim.Label, claim.Value)
	}
}

func printRaw(payload []byte) error {
	var indented json.RawMessage = payload
	bts, err := json.MarshalIndent(indented, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(bts))
	return nil
}

func init() {
	RootCmd.AddCommand(previewCmd)
}
