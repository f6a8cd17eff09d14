// wallet previews and inspects digital-credential invitations and the local
// wallet store from the command line.
package main

import "github.com/digicred/walletgo/wallet/cmd"

func main() {
	cmd.Execute()
}
