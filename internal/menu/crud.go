package menu

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"billing-cache-api/internal/model"

	"github.com/jedib0t/go-pretty/table"
)

func (m *Menu) subMenu(ctx context.Context, title string, actions []entry) error {
	t := table.NewWriter()
	t.SetOutputMirror(m.out)
	t.AppendHeader(table.Row{"#", title})
	for _, a := range actions {
		t.AppendRow(table.Row{a.key, a.label})
	}
	t.AppendRow(table.Row{"0", "Back"})
	t.Render()

	for {
		choice, err := m.ask("Select an option: ")
		if err != nil {
			return err
		}
		if choice == "0" {
			return nil
		}
		for _, a := range actions {
			if a.key == choice {
				return a.run(ctx)
			}
		}
		fmt.Fprintf(m.out, "Unknown option %q\n", choice)
	}
}

func (m *Menu) clientScreen(ctx context.Context) error {
	return m.subMenu(ctx, "Clients", []entry{
		{key: "1", label: "Create client", run: m.createClient},
		{key: "2", label: "Update client", run: m.updateClient},
		{key: "3", label: "Delete client", run: m.deleteClient},
	})
}

func (m *Menu) productScreen(ctx context.Context) error {
	return m.subMenu(ctx, "Products", []entry{
		{key: "1", label: "Create product", run: m.createProduct},
		{key: "2", label: "Update product", run: m.updateProduct},
	})
}

// askClient asks for the client fields, offering current's values as defaults.
func (m *Menu) askClient(current *model.Client) (model.ClientInput, error) {
	var in model.ClientInput
	var def model.Client
	activeDef := "yes"
	if current != nil {
		def = *current
		if !current.Active {
			activeDef = "no"
		}
	}

	var err error
	if in.FirstName, err = m.askText("First name", def.FirstName); err != nil {
		return in, err
	}
	if in.LastName, err = m.askText("Last name", def.LastName); err != nil {
		return in, err
	}
	if in.Address, err = m.askText("Address", def.Address); err != nil {
		return in, err
	}
	for {
		answer, err := m.askText("Active (yes/no)", activeDef)
		if err != nil {
			return in, err
		}
		if in.Active, err = model.ParseActive(answer); err == nil {
			return in, nil
		}
		fmt.Fprintln(m.out, "Answer yes or no")
	}
}

// selectClient searches clients by name and lets the user pick one.
// It returns nil when nothing matches or the user cancels.
func (m *Menu) selectClient(ctx context.Context) (*model.Client, error) {
	search, err := m.ask("Search client by name (empty lists all): ")
	if err != nil {
		return nil, err
	}
	all, err := m.svc.Clients.List(ctx)
	if err != nil {
		return nil, err
	}

	var matches []model.Client
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.FullName()), strings.ToLower(search)) {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		fmt.Fprintln(m.out, "No client matches")
		return nil, nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(m.out)
	t.AppendHeader(table.Row{"#", "Client", "Name", "Address"})
	for i, c := range matches {
		t.AppendRow(table.Row{i + 1, c.ClientID, c.FullName(), c.Address})
	}
	t.Render()

	i, err := m.askChoice(len(matches))
	if err != nil || i == 0 {
		return nil, err
	}
	return &matches[i-1], nil
}

func (m *Menu) createClient(ctx context.Context) error {
	in, err := m.askClient(nil)
	if err != nil {
		return err
	}
	client, err := m.svc.Clients.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Client created with number %d\n", client.ClientID)
	return nil
}

func (m *Menu) updateClient(ctx context.Context) error {
	current, err := m.selectClient(ctx)
	if err != nil || current == nil {
		return err
	}
	in, err := m.askClient(current)
	if err != nil {
		return err
	}
	client, err := m.svc.Clients.Update(ctx, current.ClientID, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Client %d updated\n", client.ClientID)
	return nil
}

func (m *Menu) deleteClient(ctx context.Context) error {
	current, err := m.selectClient(ctx)
	if err != nil || current == nil {
		return err
	}
	ok, err := m.confirm(fmt.Sprintf("Delete %s?", current.FullName()))
	if err != nil || !ok {
		return err
	}
	if err := m.svc.Clients.Delete(ctx, current.ClientID); err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Client %d deleted\n", current.ClientID)
	return nil
}

// askProduct asks for the product fields, offering current's values as defaults.
func (m *Menu) askProduct(current *model.Product) (model.ProductInput, error) {
	var def model.Product
	price, stock := "", ""
	if current != nil {
		def = *current
		price = strconv.FormatFloat(current.UnitPrice, 'f', -1, 64)
		stock = strconv.Itoa(current.Stock)
	}

	brand, err := m.askText("Brand", def.Brand)
	if err != nil {
		return model.ProductInput{}, err
	}
	name, err := m.askText("Name", def.Name)
	if err != nil {
		return model.ProductInput{}, err
	}
	desc, err := m.askText("Description", def.Description)
	if err != nil {
		return model.ProductInput{}, err
	}
	if price, err = m.askNumber("Price", price); err != nil {
		return model.ProductInput{}, err
	}
	if stock, err = m.askInt("Stock", stock); err != nil {
		return model.ProductInput{}, err
	}
	return model.ParseProductInput(brand, name, desc, price, stock)
}

func (m *Menu) selectProduct(ctx context.Context) (*model.Product, error) {
	search, err := m.ask("Search product by brand or name (empty lists all): ")
	if err != nil {
		return nil, err
	}
	all, err := m.svc.Products.List(ctx)
	if err != nil {
		return nil, err
	}

	var matches []model.Product
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.DisplayName()), strings.ToLower(search)) {
			matches = append(matches, p)
		}
	}
	if len(matches) == 0 {
		fmt.Fprintln(m.out, "No product matches")
		return nil, nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(m.out)
	t.AppendHeader(table.Row{"#", "Code", "Product", "Price", "Stock"})
	for i, p := range matches {
		t.AppendRow(table.Row{i + 1, p.ProductCode, p.DisplayName(), p.UnitPrice, p.Stock})
	}
	t.Render()

	i, err := m.askChoice(len(matches))
	if err != nil || i == 0 {
		return nil, err
	}
	return &matches[i-1], nil
}

func (m *Menu) createProduct(ctx context.Context) error {
	in, err := m.askProduct(nil)
	if err != nil {
		return err
	}
	product, err := m.svc.Products.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Product created with code %d\n", product.ProductCode)
	return nil
}

func (m *Menu) updateProduct(ctx context.Context) error {
	current, err := m.selectProduct(ctx)
	if err != nil || current == nil {
		return err
	}
	in, err := m.askProduct(current)
	if err != nil {
		return err
	}
	product, err := m.svc.Products.Update(ctx, current.ProductCode, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Product %d updated\n", product.ProductCode)
	return nil
}
