// Package cli expone los motores de costeo y protección por línea de comandos:
// evaluación fuera de línea de fotos JSON, redondeo comercial, emisión de tokens de desarrollo
// y tareas de operación sobre PostgreSQL y Redis.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/domain/decision"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/inventory"
	"github.com/jhoicas/Costeo-api/internal/domain/protection"
	"github.com/jhoicas/Costeo-api/internal/domain/risk"
	"github.com/jhoicas/Costeo-api/pkg/jwt"
	"github.com/jhoicas/Costeo-api/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

const (
	formatText = "text"
	formatJSON = "json"

	reportProtection = "protection"
	reportHealth     = "health"
	reportDecisions  = "decisions"
)

// NewApp construye la aplicación. Toda la salida va a out.
func NewApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "costeo",
		Usage:  "Costeo FIFO, deuda técnica y protección financiera del taller",
		Writer: out,
		Commands: []*cli.Command{
			evaluateCommand(),
			roundCommand(),
			tokenCommand(),
			migrateCommand(),
			importCommand(),
			flushCacheCommand(),
		},
	}
}

// ── evaluate ──────────────────────────────────────────────────────────────────

func evaluateCommand() *cli.Command {
	return &cli.Command{
		Name:  "evaluate",
		Usage: "Evalúa una foto JSON del taller y muestra el reporte",
		Flags: []cli.Flag{
			snapshotFlag(),
			&cli.StringFlag{
				Name:  "report",
				Usage: "protection | health | decisions",
				Value: reportProtection,
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "text | json",
				Value: formatText,
			},
		},
		Action: func(c *cli.Context) error {
			format := strings.ToLower(c.String("format"))
			if format != formatText && format != formatJSON {
				return fmt.Errorf("formato %q no soportado (text | json)", c.String("format"))
			}
			snap, err := readSnapshot(c.String("snapshot"))
			if err != nil {
				return err
			}

			out := c.App.Writer
			switch c.String("report") {
			case reportProtection:
				resp := dto.ToProtectionReportResponse(protection.RunProtectionEngine(snap))
				if format == formatJSON {
					return writeJSON(out, resp)
				}
				writeProtectionText(out, resp)
			case reportHealth:
				resp := dto.ToHealthReportResponse(risk.RunHealthCheck(snap))
				if format == formatJSON {
					return writeJSON(out, resp)
				}
				writeHealthText(out, resp)
			case reportDecisions:
				resp := dto.ToDecisionReportResponse(decision.BuildDecisionReport(risk.RunHealthCheck(snap)))
				if format == formatJSON {
					return writeJSON(out, resp)
				}
				writeActionsText(out, "Acciones por beneficio neto", resp.Actions)
			default:
				return fmt.Errorf("reporte %q no soportado (protection | health | decisions)", c.String("report"))
			}
			return nil
		},
	}
}

func snapshotFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "snapshot",
		Aliases:  []string{"s"},
		Usage:    "Archivo JSON con la foto del taller",
		Required: true,
	}
}

func readSnapshot(path string) (entity.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("leer foto: %w", err)
	}
	var file dto.SnapshotFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return entity.Snapshot{}, fmt.Errorf("decodificar foto %s: %w", path, err)
	}
	return file.ToSnapshot(time.Now())
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeProtectionText(out io.Writer, r dto.ProtectionReportResponse) {
	fmt.Fprintf(out, "Salud: %d/100 (%s)\n", r.HealthScore, r.Status)
	fmt.Fprintf(out, "Valor a proteger: %s\n", money.Format(r.TotalProtectedValue))
	fmt.Fprintf(out, "Deuda técnica: %s\n", money.Format(r.Health.TotalFinancialDebt))
	fmt.Fprintf(out, "Inventario valorizado: %s\n", money.Format(r.Health.InventoryValue))
	writeActionsText(out, "Acciones prioritarias", r.TopActions)
}

func writeHealthText(out io.Writer, r dto.HealthReportResponse) {
	fmt.Fprintf(out, "Deuda técnica: %s\n", money.Format(r.TotalFinancialDebt))
	fmt.Fprintf(out, "Inventario valorizado: %s\n", money.Format(r.InventoryValue))
	fmt.Fprintf(out, "Producción últimos 30 días: %s unidades (%s)\n", r.ProductionLast30Days.String(), money.Format(r.ProductionCost30Days))
	if len(r.Signals) == 0 {
		fmt.Fprintln(out, "Sin señales de riesgo.")
		return
	}
	fmt.Fprintln(out, "Señales:")
	for _, s := range r.Signals {
		fmt.Fprintf(out, "  [%s] %s %s impacto %s en %d días\n",
			s.Severity, s.Type, s.EntityName, money.Format(s.EstimatedImpact), s.TimeToImpactDays)
	}
}

func writeActionsText(out io.Writer, title string, actions []dto.ActionDTO) {
	if len(actions) == 0 {
		fmt.Fprintln(out, "Sin acciones pendientes.")
		return
	}
	fmt.Fprintf(out, "%s:\n", title)
	for i, a := range actions {
		fmt.Fprintf(out, "  %d. [%s] %s (%s) beneficio %s\n", i+1, a.Severity, a.Title, a.EntityName, money.Format(a.NetBenefit))
		if a.CallToAction != "" {
			fmt.Fprintf(out, "     %s\n", a.CallToAction)
		}
	}
}

// ── round ─────────────────────────────────────────────────────────────────────

func roundCommand() *cli.Command {
	return &cli.Command{
		Name:  "round",
		Usage: "Aplica el redondeo comercial a un precio",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "price", Aliases: []string{"p"}, Usage: "Precio a redondear", Required: true},
		},
		Action: func(c *cli.Context) error {
			price, err := decimal.NewFromString(c.String("price"))
			if err != nil {
				return fmt.Errorf("precio inválido %q: %w", c.String("price"), err)
			}
			if price.IsNegative() {
				return fmt.Errorf("precio negativo: %s", price)
			}
			fmt.Fprintln(c.App.Writer, inventory.CommercialRounding(price).StringFixed(2))
			return nil
		},
	}
}

// ── token ─────────────────────────────────────────────────────────────────────

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Emite un JWT de desarrollo para un taller y rol",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user", Usage: "ID del usuario", Value: "dev"},
			&cli.StringFlag{Name: "tenant", Usage: "ID del taller", Required: true},
			&cli.StringFlag{Name: "role", Usage: "admin | produccion | consulta", Value: "admin"},
			&cli.StringFlag{Name: "secret", Usage: "Secreto HS256", Required: true, EnvVars: []string{"JWT_SECRET"}},
			&cli.StringFlag{Name: "issuer", Usage: "Emisor", Value: "costeo-api", EnvVars: []string{"JWT_ISSUER"}},
			&cli.IntFlag{Name: "exp", Usage: "Minutos de validez", Value: 60, EnvVars: []string{"JWT_EXPIRATION_MINUTES"}},
		},
		Action: func(c *cli.Context) error {
			switch c.String("role") {
			case "admin", "produccion", "consulta":
			default:
				return fmt.Errorf("rol %q inválido (admin | produccion | consulta)", c.String("role"))
			}
			token, err := jwt.Generate(c.String("secret"), c.String("user"), c.String("tenant"), c.String("role"), c.String("issuer"), c.Int("exp"))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}
