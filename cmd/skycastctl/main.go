// skycastctl es un cliente de línea de comandos para los dos servicios:
// registra usuarios, hace login y consulta clima con el token obtenido.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	AuthURL    string
	WeatherURL string
	Token      string
	OutFormat  string // "json" | "text"
	HTTP       *http.Client
}

func (c *client) do(method, base, path string, body []byte) (int, []byte, error) {
	u := strings.TrimRight(base, "/") + path
	req, err := http.NewRequest(method, u, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func main() {
	var (
		authURL    = envOr("SKYCAST_AUTH_URL", "http://localhost:8080")
		weatherURL = envOr("SKYCAST_WEATHER_URL", "http://localhost:8081")
		token      = envOr("SKYCAST_TOKEN", "")
		out        = envOr("SKYCAST_OUT", "text")
	)

	root := &cobra.Command{
		Use:   "skycastctl",
		Short: "Cliente CLI para los servicios de SkyCast",
	}

	root.PersistentFlags().StringVar(&authURL, "auth-url", authURL, "URL del auth service (env SKYCAST_AUTH_URL)")
	root.PersistentFlags().StringVar(&weatherURL, "weather-url", weatherURL, "URL del weather service (env SKYCAST_WEATHER_URL)")
	root.PersistentFlags().StringVar(&token, "token", token, "Bearer token (env SKYCAST_TOKEN)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	cl := &client{HTTP: &http.Client{Timeout: 30 * time.Second}}
	sync := func() {
		cl.AuthURL, cl.WeatherURL, cl.Token, cl.OutFormat = authURL, weatherURL, token, out
	}

	// register
	var regUser, regPass, regEmail string
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Registrar una cuenta nueva",
		RunE: func(cmd *cobra.Command, args []string) error {
			sync()
			if regUser == "" || regPass == "" || regEmail == "" {
				return fmt.Errorf("--username, --password y --email son requeridos")
			}
			body, _ := json.Marshal(map[string]string{
				"username": regUser, "password": regPass, "email": regEmail,
			})
			status, resp, err := cl.do("POST", cl.AuthURL, "/api/auth/register", body)
			if err != nil {
				return err
			}
			cl.print(status, resp)
			if status/100 != 2 {
				return fmt.Errorf("register failed: status=%d", status)
			}
			return nil
		},
	}
	registerCmd.Flags().StringVar(&regUser, "username", "", "username")
	registerCmd.Flags().StringVar(&regPass, "password", "", "password")
	registerCmd.Flags().StringVar(&regEmail, "email", "", "email")

	// login
	var loginUser, loginPass string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Login con username y password, imprime el token",
		RunE: func(cmd *cobra.Command, args []string) error {
			sync()
			if loginUser == "" || loginPass == "" {
				return fmt.Errorf("--username y --password son requeridos")
			}
			body, _ := json.Marshal(map[string]string{
				"username": loginUser, "password": loginPass,
			})
			status, resp, err := cl.do("POST", cl.AuthURL, "/api/auth/login", body)
			if err != nil {
				return err
			}
			cl.print(status, resp)
			if status/100 != 2 {
				return fmt.Errorf("login failed: status=%d", status)
			}
			return nil
		},
	}
	loginCmd.Flags().StringVar(&loginUser, "username", "", "username")
	loginCmd.Flags().StringVar(&loginPass, "password", "", "password")

	// google
	var idToken string
	googleCmd := &cobra.Command{
		Use:   "google",
		Short: "Login federado con un ID token de Google",
		RunE: func(cmd *cobra.Command, args []string) error {
			sync()
			if idToken == "" {
				return fmt.Errorf("--id-token es requerido")
			}
			body, _ := json.Marshal(map[string]string{"idToken": idToken})
			status, resp, err := cl.do("POST", cl.AuthURL, "/api/auth/google", body)
			if err != nil {
				return err
			}
			cl.print(status, resp)
			if status/100 != 2 {
				return fmt.Errorf("google login failed: status=%d", status)
			}
			return nil
		},
	}
	googleCmd.Flags().StringVar(&idToken, "id-token", "", "Google ID token")

	// weather <city>
	weatherCmd := &cobra.Command{
		Use:   "weather <city>",
		Short: "Consultar el clima actual de una ciudad (requiere token)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sync()
			if cl.Token == "" {
				return fmt.Errorf("falta token (flag --token o env SKYCAST_TOKEN)")
			}
			status, resp, err := cl.do("GET", cl.WeatherURL, "/api/weather/"+url.PathEscape(args[0]), nil)
			if err != nil {
				return err
			}
			cl.print(status, resp)
			if status/100 != 2 {
				return fmt.Errorf("weather lookup failed: status=%d", status)
			}
			return nil
		},
	}

	// health
	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Chequear readiness de ambos servicios",
		RunE: func(cmd *cobra.Command, args []string) error {
			sync()
			ok := true
			for name, base := range map[string]string{"authsvc": cl.AuthURL, "weathersvc": cl.WeatherURL} {
				status, _, err := cl.do("GET", base, "/readyz", nil)
				switch {
				case err != nil:
					fmt.Printf("%s: unreachable (%v)\n", name, err)
					ok = false
				case status != http.StatusOK:
					fmt.Printf("%s: degraded (status=%d)\n", name, status)
					ok = false
				default:
					fmt.Printf("%s: ready\n", name)
				}
			}
			if !ok {
				return fmt.Errorf("some services are not ready")
			}
			return nil
		},
	}

	root.AddCommand(registerCmd, loginCmd, googleCmd, weatherCmd, healthCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
