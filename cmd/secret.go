package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/spigell/resume-screener/internal/secrets"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Store credentials in the OS keyring",
	Long: `Credentials such as the SMTP password or the Gemini API key can be kept in the
OS keyring under the "` + secrets.KeyringService + `" service. Reference the account
name from the config (for example notify.password-keyring).`,
}

var secretSetCmd = &cobra.Command{
	Use:   "set <account>",
	Short: "Save a secret for the account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fromStdin, _ := cmd.Flags().GetBool("stdin")

		var (
			value string
			err   error
		)
		if fromStdin {
			value, err = readSecret(cmd.InOrStdin())
		} else {
			prompt := promptui.Prompt{
				Label: fmt.Sprintf("Secret for %s", args[0]),
				Mask:  '*',
			}
			value, err = prompt.Run()
		}
		if err != nil {
			return err
		}

		if err := secrets.Set(args[0], value); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "secret %s saved\n", args[0])
		return nil
	},
}

var secretDeleteCmd = &cobra.Command{
	Use:   "delete <account>",
	Short: "Remove the secret stored for the account",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if err := secrets.Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "secret %s deleted\n", args[0])
		return nil
	},
}

func init() {
	secretSetCmd.Flags().Bool("stdin", false, "read the secret from standard input instead of prompting")

	secretCmd.AddCommand(secretSetCmd, secretDeleteCmd)
	rootCmd.AddCommand(secretCmd)
}

// readSecret returns the first line of r.
func readSecret(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
