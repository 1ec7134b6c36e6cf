package catalog

import "github.com/dshills/auditkit/internal/schema"

// roles is the responsible-party pick list offered for non-conformities.
var roles = []string{"Datore di Lavoro", "Dirigente", "Preposto", "RSPP", "Medico Competente", "Addetto Sicurezza", "Altro"}

func dlgs81() *schema.Catalog {
	return build(DefaultName, "Checklist Audit Fornitore — D.Lgs. 81/08 & SMEI", roles, []sectionFile{
		{Name: "Documentazione e organizzazione", Requirements: []requirementFile{
			{"DVR presente, firmato, data ≤ 12 mesi o aggiornato a variazioni", "Art. 17, 28-29 D.Lgs. 81/08"},
			{"Nomina RSPP disponibile e coerente con macrosettore ATECO", "Art. 17, 31-33 D.Lgs. 81/08"},
			{"Nomina ASPP (se presente) e evidenze formazione modulo A-B-C", "Art. 32 Acc. Stato-Regioni 2011"},
			{"Designazione Addetti Primo Soccorso (elenchi e turnazioni)", "Art. 18, 45 D.Lgs. 81/08; DM 388/03"},
			{"Designazione Addetti Antincendio e registro prove", "Art. 18 D.Lgs. 81/08; DM 02/09/21"},
			{"Informazione e consultazione RLS/RLST documentata", "Art. 47-50 D.Lgs. 81/08"},
			{"Gestione appalti: idoneità tecnico-professionale fornitori", "Art. 26 D.Lgs. 81/08"},
			{"D.U.V.R.I. emesso ove necessario (rischi interferenziali)", "Art. 26 c.3 D.Lgs. 81/08"},
			{"Piano di emergenza con planimetrie aggiornate/esposte", "Art. 43-46 D.Lgs. 81/08; DM 02/09/21"},
		}},
		{Name: "Impianti elettrici e verifiche", Requirements: []requirementFile{
			{"Verbali verifica messa a terra e differenziali (DPR 462/01)", "DPR 462/01; Art. 86 D.Lgs. 81/08"},
			{"Quadri elettrici: chiusura, targhette, schemi, IP adeguato", "CEI 64-8; Art. 80-87 D.Lgs. 81/08"},
			{"Prese e cavi: integrità, assenza di giunte volanti, protezioni", "CEI 64-8; Art. 80-87 D.Lgs. 81/08"},
			{"Illuminazione di emergenza funzionante e manutenzionata", "UNI EN 1838; Art. 63-64 D.Lgs. 81/08"},
		}},
		{Name: "Macchine e attrezzature", Requirements: []requirementFile{
			{"Marcatura CE e Dichiarazione CE conformità disponibili", "Dir. 2006/42/CE; Art. 70-71 D.Lgs. 81/08"},
			{"Manuale d’uso/manutenzione disponibile in lingua italiana", "Dir. 2006/42/CE; All. V D.Lgs. 81/08"},
			{"Ripari fissi/mobili e microinterruttori funzionanti", "Allegato V e VI D.Lgs. 81/08"},
			{"Dispositivi arresto di emergenza accessibili e testati", "EN ISO 13850; Art. 71 D.Lgs. 81/08"},
			{"Check-list manutenzione periodica e registri compilati", "Art. 71 c.8-9 D.Lgs. 81/08"},
			{"Verifiche periodiche attrezzature (carrelli, sollev.)", "Art. 71 c.11; DM 11/04/2011"},
		}},
		{Name: "Attrezzature in pressione / gas", Requirements: []requirementFile{
			{"PED/recipienti in pressione: collaudi/verifiche in validità", "D.Lgs. 81/08 Art. 71; PED 2014/68/UE"},
			{"Bombole gas: fissaggio, cappellotti, etichette, stoccaggio", "Linee guida INAIL; CLP"},
		}},
		{Name: "Sostanze chimiche / CLP / REACH", Requirements: []requirementFile{
			{"Inventario sostanze aggiornato con codici e quantità", "Titolo IX Capo I D.Lgs. 81/08; REACH"},
			{"Schede di sicurezza (SDS) 16 sezioni, ≤ 5 anni, in ITA", "REACH; Art. 223 D.Lgs. 81/08"},
			{"Etichettatura CLP corretta su imballaggi e contenitori secondari", "Reg. CLP (CE) n.1272/2008"},
			{"Stoccaggio per compatibilità e bacini di contenimento", "Titolo IX D.Lgs. 81/08"},
			{"Procedure sversamenti e kit assorbenti disponibili", "Titolo IX D.Lgs. 81/08"},
			{"Valutazioni specifiche: cancerogeni/mutageni dove presenti", "Titolo IX Capo II D.Lgs. 81/08"},
		}},
		{Name: "Movimentazione merci / carrelli", Requirements: []requirementFile{
			{"Abilitazione carrellisti (Accordo CSR 2012) in corso di validità", "Art. 73 D.Lgs. 81/08; CSR 22/02/2012"},
			{"Check giornaliero carrelli (freni, forche, luci, allarmi)", "Buone pratiche; Art. 71 D.Lgs. 81/08"},
			{"Viabilità interna segnalata (corsie, limiti, specchi)", "Allegato IV D.Lgs. 81/08"},
			{"Zone carico/scarico: protezioni bordi, STOP, paraurti", "Allegato IV D.Lgs. 81/08"},
			{"Mezzi di sollevamento: brache/ganci con certificazione e stato", "Art. 71 D.Lgs. 81/08"},
		}},
		{Name: "Ambienti di lavoro / antincendio", Requirements: []requirementFile{
			{"Estintori adeguati e manutenzione UNI 9994-1 aggiornata", "DM 02/09/21; UNI 9994-1"},
			{"Idranti/naspi UNI 10779: ispezioni e prova pressione", "UNI 10779; DM 02/09/21"},
			{"Uscite di emergenza libere e segnaletica UNI EN ISO 7010", "Allegato IV D.Lgs. 81/08"},
			{"Ordine e pulizia (5S) nelle aree operative e stoccaggi", "Art. 64 D.Lgs. 81/08"},
			{"Rumore: valutazione e misure (cuffie disponibili dove ≥85 dB)", "Titolo VIII Capo II D.Lgs. 81/08"},
			{"Vibrazioni: valutazione e controllo esposizioni", "Titolo VIII Capo III D.Lgs. 81/08"},
		}},
		{Name: "Sorveglianza sanitaria", Requirements: []requirementFile{
			{"Nomina Medico Competente ove dovuta", "Art. 18, 25, 41 D.Lgs. 81/08"},
			{"Protocolli sanitari coerenti con rischi valutati", "Art. 25, 41 D.Lgs. 81/08"},
			{"Giudizi di idoneità disponibili e comunicati ai preposti", "Art. 41 D.Lgs. 81/08"},
			{"Gestione idoneità con prescrizioni e follow-up attivi", "Art. 18, 41 D.Lgs. 81/08"},
		}},
		{Name: "DPI (scelta, consegna, uso)", Requirements: []requirementFile{
			{"Valutazione scelta DPI per ciascun rischio", "Art. 76-77 D.Lgs. 81/08"},
			{"Registro consegna DPI firmato dai lavoratori", "Art. 77 D.Lgs. 81/08"},
			{"Addestramento DPI di III categoria documentato", "Art. 77 c.5 D.Lgs. 81/08"},
			{"Sostituzione DPI usurati e stoccaggio corretto", "Art. 77 D.Lgs. 81/08"},
		}},
		{Name: "Aspetti formativi (dettaglio)", Requirements: []requirementFile{
			{"Formazione generale lavoratori (≥4h) erogata a tutti i neoassunti", "Accordi Stato-Regioni 2011/2016"},
			{"Formazione specifica (4/8/12h secondo rischio) completata", "Accordi SR 2011/2016"},
			{"Aggiornamento lavoratori (≥6h/5 anni) tracciato", "Accordi SR 2011/2016"},
			{"Formazione Preposti (moduli aggiuntivi) + aggiornamento", "Accordo SR 2021 (Preposti)"},
			{"Formazione Dirigenti (≥16h) + aggiornamento quinquennale", "Accordi SR 2011/2016"},
			{"Antincendio (Liv. 1-2-3) con addestramento pratico", "DM 02/09/21"},
			{"Primo soccorso (A/B/C) + aggiornamento triennale", "DM 388/03"},
			{"VDT (ove previsto): informazione/formazione addetti", "Art. 173-176 D.Lgs. 81/08"},
			{"Attrezzature particolari (carrelli, PLE, gru): abilitazioni", "Accordo CSR 22/02/2012"},
			{"RSPP/ASPP: moduli A-B-C e aggiornamenti quinquennali", "Art. 32 D.Lgs. 81/08; Accordi SR"},
		}},
	})
}
